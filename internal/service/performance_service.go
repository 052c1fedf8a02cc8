// backend-go/internal/service/performance_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vendorpulse/backend-go/internal/cache"
	"github.com/vendorpulse/backend-go/internal/domain"
	"github.com/vendorpulse/backend-go/internal/metrics"
	"github.com/vendorpulse/backend-go/internal/repository"
)

// PerformanceService owns the metric recomputation that fires after every
// persisted purchase-order mutation, and the append-only history trail.
// It runs synchronously in the same unit of work as the triggering write;
// there is no queued or deferred recomputation.
type PerformanceService struct {
	vendors repository.VendorRepository
	orders  repository.PurchaseOrderRepository
	history repository.PerformanceHistoryRepository
	cache   cache.PerformanceCache
	now     func() time.Time
}

func NewPerformanceService(
	vendors repository.VendorRepository,
	orders repository.PurchaseOrderRepository,
	history repository.PerformanceHistoryRepository,
	perfCache cache.PerformanceCache,
) *PerformanceService {
	if perfCache == nil {
		perfCache = cache.NewNoopPerformanceCache()
	}
	return &PerformanceService{
		vendors: vendors,
		orders:  orders,
		history: history,
		cache:   perfCache,
		now:     time.Now,
	}
}

// Recompute re-derives the metrics affected by a just-persisted mutation of
// po and, if any metric was written, appends exactly one history snapshot of
// the vendor's post-recompute values. statusChanged tells whether the
// mutation was an actual status transition as opposed to an acknowledgment.
//
// The three gates:
//  1. order completed            -> on-time delivery rate (+ quality average
//     when this order carries a rating)
//  2. acknowledged AND pending   -> average response time; acknowledging an
//     order that already left pending deliberately does not touch this
//     metric
//  3. actual status transition   -> fulfillment rate
//
// Each recompute scans the vendor's full order set; O(orders-per-vendor) per
// mutation.
func (s *PerformanceService) Recompute(ctx context.Context, po *domain.PurchaseOrder, statusChanged bool) error {
	vendor, err := s.vendors.GetVendorByID(ctx, po.VendorID)
	if err != nil {
		return fmt.Errorf("recompute: load vendor: %w", err)
	}

	orders, err := s.orders.ListPurchaseOrdersByVendor(ctx, po.VendorID)
	if err != nil {
		return fmt.Errorf("recompute: load vendor orders: %w", err)
	}

	m := vendor.Metrics()
	var wrote bool

	if po.Status == domain.StatusCompleted {
		changed := false
		if rate, ok := metrics.OnTimeDeliveryRate(orders); ok {
			m.OnTimeDeliveryRate = rate
			changed = true
		}
		if po.QualityRating != nil {
			if avg, ok := metrics.QualityRatingAvg(orders); ok {
				m.QualityRatingAvg = avg
				changed = true
			}
		}
		if changed {
			if err := s.vendors.UpdateVendorMetrics(ctx, vendor.ID, m); err != nil {
				return fmt.Errorf("recompute: write delivery metrics: %w", err)
			}
			wrote = true
		}
	}

	if po.Acknowledged() && po.Status == domain.StatusPending {
		if avg, ok := metrics.AverageResponseTime(orders); ok {
			m.AverageResponseTime = avg
			if err := s.vendors.UpdateVendorMetrics(ctx, vendor.ID, m); err != nil {
				return fmt.Errorf("recompute: write response time: %w", err)
			}
			wrote = true
		}
	}

	if statusChanged {
		if rate, ok := metrics.FulfillmentRate(orders); ok {
			m.FulfillmentRate = rate
			if err := s.vendors.UpdateVendorMetrics(ctx, vendor.ID, m); err != nil {
				return fmt.Errorf("recompute: write fulfillment rate: %w", err)
			}
			wrote = true
		}
	}

	if !wrote {
		return nil
	}

	if err := s.cache.Invalidate(ctx, vendor.Code); err != nil {
		log.Warn().Err(err).Str("vendor_code", vendor.Code).Msg("failed to invalidate performance cache")
	}

	// A history-append failure after the vendor write leaves the snapshot
	// missing; callers monitor the log rather than the core healing it.
	snapshot := &domain.PerformanceHistory{
		ID:                  uuid.NewString(),
		VendorID:            vendor.ID,
		RecordedAt:          s.now(),
		OnTimeDeliveryRate:  m.OnTimeDeliveryRate,
		QualityRatingAvg:    m.QualityRatingAvg,
		AverageResponseTime: m.AverageResponseTime,
		FulfillmentRate:     m.FulfillmentRate,
	}
	if err := s.history.AppendHistory(ctx, snapshot); err != nil {
		log.Error().Err(err).
			Str("vendor_code", vendor.Code).
			Str("po_number", po.PONumber).
			Msg("vendor metrics updated but history snapshot failed")
	}

	return nil
}

// RecomputeAll re-derives all four metrics for one vendor from a full order
// scan. Used by the backfill tool; it writes the vendor at most once and
// does not append history, since no lifecycle event occurred.
func (s *PerformanceService) RecomputeAll(ctx context.Context, vendorID string) error {
	vendor, err := s.vendors.GetVendorByID(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("backfill: load vendor: %w", err)
	}

	orders, err := s.orders.ListPurchaseOrdersByVendor(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("backfill: load vendor orders: %w", err)
	}

	m := vendor.Metrics()
	var changed bool

	if rate, ok := metrics.OnTimeDeliveryRate(orders); ok && rate != m.OnTimeDeliveryRate {
		m.OnTimeDeliveryRate = rate
		changed = true
	}
	if avg, ok := metrics.QualityRatingAvg(orders); ok && avg != m.QualityRatingAvg {
		m.QualityRatingAvg = avg
		changed = true
	}
	if avg, ok := metrics.AverageResponseTime(orders); ok && avg != m.AverageResponseTime {
		m.AverageResponseTime = avg
		changed = true
	}
	if rate, ok := metrics.FulfillmentRate(orders); ok && rate != m.FulfillmentRate {
		m.FulfillmentRate = rate
		changed = true
	}

	if !changed {
		return nil
	}

	if err := s.vendors.UpdateVendorMetrics(ctx, vendorID, m); err != nil {
		return fmt.Errorf("backfill: write metrics: %w", err)
	}
	if err := s.cache.Invalidate(ctx, vendor.Code); err != nil {
		log.Warn().Err(err).Str("vendor_code", vendor.Code).Msg("failed to invalidate performance cache")
	}

	return nil
}
