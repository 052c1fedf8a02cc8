// backend-go/internal/repository/postgres/vendor_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vendorpulse/backend-go/internal/domain"
)

type vendorRepository struct {
	db *DB
}

func NewVendorRepository(db *DB) *vendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	query := `
		INSERT INTO vendors (
			id, code, name, contact_details, address,
			on_time_delivery_rate, quality_rating_avg, average_response_time, fulfillment_rate,
			created_at, updated_at
		) VALUES (
			:id, :code, :name, :contact_details, :address,
			:on_time_delivery_rate, :quality_rating_avg, :average_response_time, :fulfillment_rate,
			:created_at, :updated_at
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, vendor); err != nil {
		return fmt.Errorf("failed to insert vendor %s: %w", vendor.Code, err)
	}

	return nil
}

func (r *vendorRepository) GetVendorByCode(ctx context.Context, code string) (*domain.Vendor, error) {
	var vendor domain.Vendor
	query := `SELECT * FROM vendors WHERE code = $1`

	if err := r.db.GetContext(ctx, &vendor, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewVendorNotFound(code)
		}
		return nil, fmt.Errorf("failed to get vendor by code: %w", err)
	}

	return &vendor, nil
}

func (r *vendorRepository) GetVendorByID(ctx context.Context, id string) (*domain.Vendor, error) {
	var vendor domain.Vendor
	query := `SELECT * FROM vendors WHERE id = $1`

	if err := r.db.GetContext(ctx, &vendor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewVendorNotFound(id)
		}
		return nil, fmt.Errorf("failed to get vendor by id: %w", err)
	}

	return &vendor, nil
}

func (r *vendorRepository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	var vendors []domain.Vendor
	query := `SELECT * FROM vendors ORDER BY code`

	if err := r.db.SelectContext(ctx, &vendors, query); err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	return vendors, nil
}

func (r *vendorRepository) UpdateVendor(ctx context.Context, vendor *domain.Vendor) error {
	query := `
		UPDATE vendors
		SET name = :name, contact_details = :contact_details, address = :address, updated_at = NOW()
		WHERE id = :id
	`

	res, err := r.db.NamedExecContext(ctx, query, vendor)
	if err != nil {
		return fmt.Errorf("failed to update vendor %s: %w", vendor.Code, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewVendorNotFound(vendor.Code)
	}

	return nil
}

func (r *vendorRepository) UpdateVendorMetrics(ctx context.Context, vendorID string, m domain.VendorMetrics) error {
	query := `
		UPDATE vendors
		SET on_time_delivery_rate = $2, quality_rating_avg = $3,
		    average_response_time = $4, fulfillment_rate = $5, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, vendorID,
		m.OnTimeDeliveryRate, m.QualityRatingAvg, m.AverageResponseTime, m.FulfillmentRate)
	if err != nil {
		return fmt.Errorf("failed to update vendor metrics: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewVendorNotFound(vendorID)
	}

	return nil
}

// DeleteVendor removes the vendor together with its orders and history rows
// in one transaction, so a partial failure never leaves orphaned children
// visible.
func (r *vendorRepository) DeleteVendor(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM performance_history WHERE vendor_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete vendor history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_orders WHERE vendor_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete vendor purchase orders: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM vendors WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete vendor: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.NewVendorNotFound(id)
		}

		return nil
	})
}
