// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	dbcommon "storefront/internal/adapters/out/db/common"
	orderdom "storefront/internal/domain/order"
)

// OrderRepositoryPG mirrors orders into PostgreSQL for analytics.
// Firestore stays the source of truth; this repository is only attached
// as a write-through mirror.
//
// DDL:
//
//	CREATE TABLE IF NOT EXISTS orders (
//	    id                  TEXT PRIMARY KEY,
//	    user_id             TEXT NOT NULL,
//	    avatar_id           TEXT NOT NULL,
//	    cart_id             TEXT NOT NULL,
//	    delivery_status     TEXT NOT NULL DEFAULT '',
//	    distribution_status TEXT NOT NULL DEFAULT '',
//	    shipping_snapshot   JSONB NOT NULL,
//	    items               JSONB NOT NULL,
//	    created_at          TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX IF NOT EXISTS idx_orders_avatar_created
//	    ON orders (avatar_id, created_at DESC);
type OrderRepositoryPG struct {
	db *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{db: db}
}

const orderColumns = `id, user_id, avatar_id, cart_id, delivery_status, distribution_status, shipping_snapshot, items, created_at`

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("OrderRepositoryPG: db is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, orderdom.ErrNotFound
	}

	run := dbcommon.GetRunner(ctx, r.db)
	row := run.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, oid)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderdom.ErrNotFound
		}
		return nil, fmt.Errorf("OrderRepositoryPG.GetByID: %w", err)
	}
	return o, nil
}

func (r *OrderRepositoryPG) ListByAvatarID(ctx context.Context, avatarID string, limit int) ([]orderdom.Order, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("OrderRepositoryPG: db is nil")
	}
	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return []orderdom.Order{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	run := dbcommon.GetRunner(ctx, r.db)
	rows, err := run.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE avatar_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, aid, limit)
	if err != nil {
		return nil, fmt.Errorf("OrderRepositoryPG.ListByAvatarID: %w", err)
	}
	defer rows.Close()

	out := make([]orderdom.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("OrderRepositoryPG.ListByAvatarID scan: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OrderRepositoryPG) Create(ctx context.Context, o *orderdom.Order) error {
	return r.upsert(ctx, o)
}

func (r *OrderRepositoryPG) Save(ctx context.Context, o *orderdom.Order) error {
	return r.upsert(ctx, o)
}

// upsert keeps the mirror idempotent: re-delivered events and retried
// writes land on ON CONFLICT instead of failing.
func (r *OrderRepositoryPG) upsert(ctx context.Context, o *orderdom.Order) error {
	if r == nil || r.db == nil {
		return errors.New("OrderRepositoryPG: db is nil")
	}
	if o == nil || strings.TrimSpace(o.ID) == "" {
		return errors.New("OrderRepositoryPG: order id is empty")
	}

	shippingJSON, err := json.Marshal(o.ShippingSnapshot)
	if err != nil {
		return fmt.Errorf("OrderRepositoryPG: marshal shipping: %w", err)
	}
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("OrderRepositoryPG: marshal items: %w", err)
	}

	run := dbcommon.GetRunner(ctx, r.db)
	_, err = run.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     delivery_status     = EXCLUDED.delivery_status,
		     distribution_status = EXCLUDED.distribution_status,
		     shipping_snapshot   = EXCLUDED.shipping_snapshot,
		     items               = EXCLUDED.items`,
		o.ID, o.UserID, o.AvatarID, o.CartID,
		o.DeliveryStatus, o.DistributionStatus,
		shippingJSON, itemsJSON, o.CreatedAt,
	)
	if err != nil {
		// unique violations other than the PK should not happen; keep the
		// check so schema drift surfaces clearly in logs
		if dbcommon.IsUniqueViolation(err) {
			return fmt.Errorf("OrderRepositoryPG: duplicate key on upsert (schema drift?): %w", err)
		}
		return fmt.Errorf("OrderRepositoryPG.upsert: %w", err)
	}
	return nil
}

func scanOrder(s dbcommon.RowScanner) (*orderdom.Order, error) {
	var (
		o            orderdom.Order
		shippingJSON []byte
		itemsJSON    []byte
	)
	if err := s.Scan(
		&o.ID, &o.UserID, &o.AvatarID, &o.CartID,
		&o.DeliveryStatus, &o.DistributionStatus,
		&shippingJSON, &itemsJSON, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(shippingJSON) > 0 {
		if err := json.Unmarshal(shippingJSON, &o.ShippingSnapshot); err != nil {
			return nil, fmt.Errorf("unmarshal shipping_snapshot: %w", err)
		}
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	return &o, nil
}
