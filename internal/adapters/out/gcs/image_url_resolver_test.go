// internal/adapters/out/gcs/image_url_resolver_test.go
package gcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveImageURL(t *testing.T) {
	r := NewImageURLResolver("storefront-images")
	ctx := context.Background()

	cases := []struct {
		name string
		ref  string
		want string
	}{
		{"absolute url passthrough", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"gs ref", "gs://other-bucket/products/p-1/a.png", "https://storage.googleapis.com/other-bucket/products/p-1/a.png"},
		{"bare object path", "products/p-1/a.png", "https://storage.googleapis.com/storefront-images/products/p-1/a.png"},
		{"leading slash stripped", "/products/p-1/a.png", "https://storage.googleapis.com/storefront-images/products/p-1/a.png"},
		{"empty ref", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.ResolveImageURL(ctx, tc.ref)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveImageURLRequiresBucketForBarePaths(t *testing.T) {
	r := NewImageURLResolver("")
	_, err := r.ResolveImageURL(context.Background(), "products/p-1/a.png")
	assert.Error(t, err)
}
