// internal/adapters/out/firestore/orderItem_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderitemdom "storefront/internal/domain/orderItem"
)

// OrderItemRepositoryFS implements orderitem.Repository using Firestore.
//
// Collection design:
// - collection: orderItems
// - docId: orderItemId
// - query index on orderId
type OrderItemRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderItemRepositoryFS(client *firestore.Client) *OrderItemRepositoryFS {
	return &OrderItemRepositoryFS{Client: client}
}

func (r *OrderItemRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orderItems")
}

func (r *OrderItemRepositoryFS) GetByID(ctx context.Context, id string) (*orderitemdom.OrderItem, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("orderItem_repository_fs: firestore client is nil")
	}

	iid := strings.TrimSpace(id)
	if iid == "" {
		return nil, orderitemdom.ErrNotFound
	}

	snap, err := r.col().Doc(iid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, orderitemdom.ErrNotFound
		}
		return nil, err
	}

	var oi orderitemdom.OrderItem
	if err := snap.DataTo(&oi); err != nil {
		return nil, err
	}
	oi.ID = iid
	return &oi, nil
}

func (r *OrderItemRepositoryFS) ListByOrderID(ctx context.Context, orderID string) ([]orderitemdom.OrderItem, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("orderItem_repository_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return nil, errors.New("orderItem_repository_fs: orderID is empty")
	}

	iter := r.col().Where("orderId", "==", oid).Documents(ctx)
	defer iter.Stop()

	out := []orderitemdom.OrderItem{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var oi orderitemdom.OrderItem
		if err := snap.DataTo(&oi); err != nil {
			return nil, err
		}
		oi.ID = snap.Ref.ID
		out = append(out, oi)
	}
	return out, nil
}

func (r *OrderItemRepositoryFS) Upsert(ctx context.Context, oi *orderitemdom.OrderItem) error {
	if r == nil || r.Client == nil {
		return errors.New("orderItem_repository_fs: firestore client is nil")
	}
	if oi == nil {
		return errors.New("orderItem_repository_fs: orderItem is nil")
	}

	iid := strings.TrimSpace(oi.ID)
	if iid == "" {
		return errors.New("orderItem_repository_fs: orderItem.ID is empty")
	}

	_, err := r.col().Doc(iid).Set(ctx, oi)
	return err
}
