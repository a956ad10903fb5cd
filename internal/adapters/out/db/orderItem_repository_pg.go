// internal/adapters/out/db/orderItem_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	dbcommon "storefront/internal/adapters/out/db/common"
	orderitemdom "storefront/internal/domain/orderItem"
)

// OrderItemRepositoryPG mirrors order line items into PostgreSQL.
// Same write-through role as OrderRepositoryPG.
//
// DDL:
//
//	CREATE TABLE IF NOT EXISTS order_items (
//	    id                   TEXT PRIMARY KEY,
//	    order_id             TEXT NOT NULL,
//	    product_id           TEXT NOT NULL,
//	    quantity             INTEGER NOT NULL,
//	    price                INTEGER NOT NULL,
//	    selected_options     JSONB,
//	    gathering_status     TEXT NOT NULL DEFAULT '',
//	    delivery_status      TEXT NOT NULL DEFAULT '',
//	    delivered_in_partial BOOLEAN NOT NULL DEFAULT FALSE
//	);
//	CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id);
type OrderItemRepositoryPG struct {
	db *sql.DB
}

func NewOrderItemRepositoryPG(db *sql.DB) *OrderItemRepositoryPG {
	return &OrderItemRepositoryPG{db: db}
}

const orderItemColumns = `id, order_id, product_id, quantity, price, selected_options, gathering_status, delivery_status, delivered_in_partial`

func (r *OrderItemRepositoryPG) GetByID(ctx context.Context, id string) (*orderitemdom.OrderItem, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("OrderItemRepositoryPG: db is nil")
	}
	iid := strings.TrimSpace(id)
	if iid == "" {
		return nil, orderitemdom.ErrNotFound
	}

	run := dbcommon.GetRunner(ctx, r.db)
	row := run.QueryRowContext(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE id = $1`, iid)

	oi, err := scanOrderItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderitemdom.ErrNotFound
		}
		return nil, fmt.Errorf("OrderItemRepositoryPG.GetByID: %w", err)
	}
	return oi, nil
}

func (r *OrderItemRepositoryPG) ListByOrderID(ctx context.Context, orderID string) ([]orderitemdom.OrderItem, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("OrderItemRepositoryPG: db is nil")
	}
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return []orderitemdom.OrderItem{}, nil
	}

	run := dbcommon.GetRunner(ctx, r.db)
	rows, err := run.QueryContext(ctx,
		`SELECT `+orderItemColumns+` FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`, oid)
	if err != nil {
		return nil, fmt.Errorf("OrderItemRepositoryPG.ListByOrderID: %w", err)
	}
	defer rows.Close()

	out := []orderitemdom.OrderItem{}
	for rows.Next() {
		oi, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("OrderItemRepositoryPG.ListByOrderID scan: %w", err)
		}
		out = append(out, *oi)
	}
	return out, rows.Err()
}

func (r *OrderItemRepositoryPG) Upsert(ctx context.Context, oi *orderitemdom.OrderItem) error {
	if r == nil || r.db == nil {
		return errors.New("OrderItemRepositoryPG: db is nil")
	}
	if oi == nil || strings.TrimSpace(oi.ID) == "" {
		return errors.New("OrderItemRepositoryPG: item id is empty")
	}

	optionsJSON, err := marshalOptions(oi.SelectedOptions)
	if err != nil {
		return fmt.Errorf("OrderItemRepositoryPG: marshal options: %w", err)
	}

	run := dbcommon.GetRunner(ctx, r.db)
	_, err = run.ExecContext(ctx,
		`INSERT INTO order_items (`+orderItemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     quantity             = EXCLUDED.quantity,
		     price                = EXCLUDED.price,
		     selected_options     = EXCLUDED.selected_options,
		     gathering_status     = EXCLUDED.gathering_status,
		     delivery_status      = EXCLUDED.delivery_status,
		     delivered_in_partial = EXCLUDED.delivered_in_partial`,
		oi.ID, oi.OrderID, oi.ProductID,
		oi.Quantity, oi.Price, optionsJSON,
		string(oi.GatheringStatus), oi.DeliveryStatus, oi.DeliveredInPartial,
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return fmt.Errorf("OrderItemRepositoryPG: duplicate key on upsert (schema drift?): %w", err)
		}
		return fmt.Errorf("OrderItemRepositoryPG.Upsert: %w", err)
	}
	return nil
}

// marshalOptions stores NULL instead of '{}' for option-less lines.
func marshalOptions(m map[string]string) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanOrderItem(s dbcommon.RowScanner) (*orderitemdom.OrderItem, error) {
	var (
		oi          orderitemdom.OrderItem
		optionsJSON []byte
		gathering   string
	)
	if err := s.Scan(
		&oi.ID, &oi.OrderID, &oi.ProductID,
		&oi.Quantity, &oi.Price, &optionsJSON,
		&gathering, &oi.DeliveryStatus, &oi.DeliveredInPartial,
	); err != nil {
		return nil, err
	}
	oi.GatheringStatus = orderitemdom.GatheringStatus(gathering)
	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &oi.SelectedOptions); err != nil {
			return nil, fmt.Errorf("unmarshal selected_options: %w", err)
		}
	}
	return &oi, nil
}
