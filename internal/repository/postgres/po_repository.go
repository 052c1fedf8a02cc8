// backend-go/internal/repository/postgres/po_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vendorpulse/backend-go/internal/domain"
)

type poRepository struct {
	db *DB
}

func NewPurchaseOrderRepository(db *DB) *poRepository {
	return &poRepository{db: db}
}

func (r *poRepository) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (
			id, po_number, vendor_id, order_date, delivery_date, issue_date,
			acknowledgment_date, items, quantity, status, prev_status,
			quality_rating, is_delivered_late, created_at, updated_at
		) VALUES (
			:id, :po_number, :vendor_id, :order_date, :delivery_date, :issue_date,
			:acknowledgment_date, :items, :quantity, :status, :prev_status,
			:quality_rating, :is_delivered_late, :created_at, :updated_at
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, po); err != nil {
		return fmt.Errorf("failed to insert purchase order %s: %w", po.PONumber, err)
	}

	return nil
}

func (r *poRepository) GetPurchaseOrderByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	query := `SELECT * FROM purchase_orders WHERE po_number = $1`

	if err := r.db.GetContext(ctx, &po, query, poNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewPurchaseOrderNotFound(poNumber)
		}
		return nil, fmt.Errorf("failed to get purchase order by number: %w", err)
	}

	return &po, nil
}

func (r *poRepository) ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	var orders []domain.PurchaseOrder
	query := `SELECT * FROM purchase_orders ORDER BY order_date`

	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	return orders, nil
}

func (r *poRepository) ListPurchaseOrdersByVendor(ctx context.Context, vendorID string) ([]domain.PurchaseOrder, error) {
	var orders []domain.PurchaseOrder
	query := `SELECT * FROM purchase_orders WHERE vendor_id = $1 ORDER BY order_date`

	if err := r.db.SelectContext(ctx, &orders, query, vendorID); err != nil {
		return nil, fmt.Errorf("failed to list vendor purchase orders: %w", err)
	}

	return orders, nil
}

func (r *poRepository) UpdatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	// vendor_id, order_date and issue_date are immutable after creation and
	// deliberately absent from the SET list.
	query := `
		UPDATE purchase_orders
		SET delivery_date = :delivery_date, acknowledgment_date = :acknowledgment_date,
		    items = :items, quantity = :quantity, status = :status, prev_status = :prev_status,
		    quality_rating = :quality_rating, is_delivered_late = :is_delivered_late,
		    updated_at = NOW()
		WHERE id = :id
	`

	res, err := r.db.NamedExecContext(ctx, query, po)
	if err != nil {
		return fmt.Errorf("failed to update purchase order %s: %w", po.PONumber, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewPurchaseOrderNotFound(po.PONumber)
	}

	return nil
}

func (r *poRepository) DeletePurchaseOrder(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewPurchaseOrderNotFound(id)
	}

	return nil
}
