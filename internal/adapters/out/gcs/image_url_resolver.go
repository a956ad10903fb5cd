// internal/adapters/out/gcs/image_url_resolver.go
package gcs

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	gcscommon "storefront/internal/adapters/out/gcs/common"
)

// ImageURLResolver resolves stored product image refs into URLs the
// storefront can render. Backs query/mall.ImageURLResolver.
//
// A ref can be:
// - http(s)://... (returned as-is)
// - gs://bucket/object or https://storage.googleapis.com/... (parsed)
// - objectPath (treated as object path within Bucket)
//
// With SignTTL > 0 and a storage client, a V4 signed GET URL is issued
// (private bucket). Otherwise the public URL form is returned.
type ImageURLResolver struct {
	Client  *storage.Client
	Bucket  string
	SignTTL time.Duration
}

func NewImageURLResolver(bucket string) *ImageURLResolver {
	return &ImageURLResolver{Bucket: strings.TrimSpace(bucket)}
}

func NewSigningImageURLResolver(client *storage.Client, bucket string, ttl time.Duration) *ImageURLResolver {
	return &ImageURLResolver{
		Client:  client,
		Bucket:  strings.TrimSpace(bucket),
		SignTTL: ttl,
	}
}

func (r *ImageURLResolver) ResolveImageURL(ctx context.Context, ref string) (string, error) {
	p := strings.TrimSpace(ref)
	if p == "" {
		return "", nil
	}

	// already absolute and not a GCS form we need to rewrite
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		if b, obj, ok := gcscommon.ParseGCSRef(p); ok && r.signing() {
			return r.signedURL(b, obj)
		}
		return p, nil
	}

	if b, obj, ok := gcscommon.ParseGCSRef(p); ok {
		if r.signing() {
			return r.signedURL(b, obj)
		}
		return gcscommon.GCSPublicURL(b, obj, r.Bucket), nil
	}

	// bare object path within the configured bucket
	if strings.TrimSpace(r.Bucket) == "" {
		return "", errors.New("image_url_resolver: bucket is not configured")
	}
	if r.signing() {
		return r.signedURL(r.Bucket, strings.TrimLeft(p, "/"))
	}
	return gcscommon.GCSPublicURL(r.Bucket, p, ""), nil
}

func (r *ImageURLResolver) signing() bool {
	return r.Client != nil && r.SignTTL > 0
}

func (r *ImageURLResolver) signedURL(bucket, object string) (string, error) {
	return r.Client.Bucket(bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(r.SignTTL),
	})
}
