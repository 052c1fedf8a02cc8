// backend-go/internal/repository/postgres/history_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/vendorpulse/backend-go/internal/domain"
)

type historyRepository struct {
	db *DB
}

func NewPerformanceHistoryRepository(db *DB) *historyRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) AppendHistory(ctx context.Context, h *domain.PerformanceHistory) error {
	query := `
		INSERT INTO performance_history (
			id, vendor_id, recorded_at,
			on_time_delivery_rate, quality_rating_avg, average_response_time, fulfillment_rate
		) VALUES (
			:id, :vendor_id, :recorded_at,
			:on_time_delivery_rate, :quality_rating_avg, :average_response_time, :fulfillment_rate
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, h); err != nil {
		return fmt.Errorf("failed to append performance history: %w", err)
	}

	return nil
}

func (r *historyRepository) ListHistoryByVendor(ctx context.Context, vendorID string) ([]domain.PerformanceHistory, error) {
	var rows []domain.PerformanceHistory
	query := `SELECT * FROM performance_history WHERE vendor_id = $1 ORDER BY recorded_at`

	if err := r.db.SelectContext(ctx, &rows, query, vendorID); err != nil {
		return nil, fmt.Errorf("failed to list performance history: %w", err)
	}

	return rows, nil
}
