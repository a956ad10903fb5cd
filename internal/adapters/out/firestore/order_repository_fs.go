// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "storefront/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders
// - docId: orderId (docId is the source of truth)
// - composite index: (avatarId ASC, createdAt DESC) for history queries
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, orderdom.ErrNotFound
		}
		return nil, err
	}

	var o orderdom.Order
	if err := snap.DataTo(&o); err != nil {
		return nil, err
	}
	o.ID = oid
	return &o, nil
}

func (r *OrderRepositoryFS) ListByAvatarID(ctx context.Context, avatarID string, limit int) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return nil, errors.New("order_repository_fs: avatarID is empty")
	}
	if limit <= 0 {
		limit = 50
	}

	q := r.col().
		Where("avatarId", "==", aid).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []orderdom.Order{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var o orderdom.Order
		if err := snap.DataTo(&o); err != nil {
			return nil, err
		}
		o.ID = snap.Ref.ID
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepositoryFS) Create(ctx context.Context, o *orderdom.Order) error {
	return r.set(ctx, o)
}

func (r *OrderRepositoryFS) Save(ctx context.Context, o *orderdom.Order) error {
	return r.set(ctx, o)
}

func (r *OrderRepositoryFS) set(ctx context.Context, o *orderdom.Order) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	if o == nil {
		return errors.New("order_repository_fs: order is nil")
	}

	oid := strings.TrimSpace(o.ID)
	if oid == "" {
		return errors.New("order_repository_fs: order.ID is empty")
	}

	_, err := r.col().Doc(oid).Set(ctx, o)
	return err
}
