// backend-go/internal/service/vendor_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vendorpulse/backend-go/internal/cache"
	"github.com/vendorpulse/backend-go/internal/domain"
	"github.com/vendorpulse/backend-go/internal/repository"
)

// VendorService owns vendor CRUD and the read-only performance projection.
// It never writes the four metric fields; those belong to the
// PerformanceService.
type VendorService struct {
	vendors repository.VendorRepository
	history repository.PerformanceHistoryRepository
	cache   cache.PerformanceCache
	now     func() time.Time
}

func NewVendorService(
	vendors repository.VendorRepository,
	history repository.PerformanceHistoryRepository,
	perfCache cache.PerformanceCache,
) *VendorService {
	if perfCache == nil {
		perfCache = cache.NewNoopPerformanceCache()
	}
	return &VendorService{
		vendors: vendors,
		history: history,
		cache:   perfCache,
		now:     time.Now,
	}
}

type VendorInput struct {
	Code           string
	Name           string
	ContactDetails string
	Address        string
}

func (s *VendorService) CreateVendor(ctx context.Context, input VendorInput) (*domain.Vendor, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)

	var missing []string
	if code == "" {
		missing = append(missing, "vendor_code")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	createdAt := s.now()
	vendor := &domain.Vendor{
		ID:             uuid.NewString(),
		Code:           code,
		Name:           name,
		ContactDetails: strings.TrimSpace(input.ContactDetails),
		Address:        strings.TrimSpace(input.Address),
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	if err := s.vendors.CreateVendor(ctx, vendor); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}

	log.Info().Str("vendor_code", code).Msg("vendor created")

	return vendor, nil
}

func (s *VendorService) GetVendor(ctx context.Context, code string) (*domain.Vendor, error) {
	return s.vendors.GetVendorByCode(ctx, code)
}

func (s *VendorService) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	return s.vendors.ListVendors(ctx)
}

// UpdateVendor edits identity fields only; metrics are never touched here.
func (s *VendorService) UpdateVendor(ctx context.Context, code string, input VendorInput) (*domain.Vendor, error) {
	vendor, err := s.vendors.GetVendorByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	vendor.Name = strings.TrimSpace(input.Name)
	vendor.ContactDetails = strings.TrimSpace(input.ContactDetails)
	vendor.Address = strings.TrimSpace(input.Address)

	if err := s.vendors.UpdateVendor(ctx, vendor); err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}

	return s.vendors.GetVendorByCode(ctx, code)
}

// DeleteVendor removes a vendor; its purchase orders and history rows go
// with it.
func (s *VendorService) DeleteVendor(ctx context.Context, code string) error {
	vendor, err := s.vendors.GetVendorByCode(ctx, code)
	if err != nil {
		return err
	}

	if err := s.vendors.DeleteVendor(ctx, vendor.ID); err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}

	if err := s.cache.Invalidate(ctx, code); err != nil {
		log.Warn().Err(err).Str("vendor_code", code).Msg("failed to invalidate performance cache")
	}

	return nil
}

// GetPerformance serves the current metric projection, read-through cached.
func (s *VendorService) GetPerformance(ctx context.Context, code string) (*domain.PerformanceSnapshot, error) {
	if snapshot, hit, err := s.cache.GetSnapshot(ctx, code); err != nil {
		log.Warn().Err(err).Str("vendor_code", code).Msg("performance cache read failed")
	} else if hit {
		return snapshot, nil
	}

	vendor, err := s.vendors.GetVendorByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.PerformanceSnapshot{
		VendorName:          vendor.Name,
		VendorCode:          vendor.Code,
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    vendor.QualityRatingAvg,
		AverageResponseTime: vendor.AverageResponseTime,
		FulfillmentRate:     vendor.FulfillmentRate,
	}

	if err := s.cache.SetSnapshot(ctx, code, snapshot); err != nil {
		log.Warn().Err(err).Str("vendor_code", code).Msg("performance cache write failed")
	}

	return snapshot, nil
}

// GetHistory returns the vendor's append-only metric snapshots in recording
// order.
func (s *VendorService) GetHistory(ctx context.Context, code string) ([]domain.PerformanceHistory, error) {
	vendor, err := s.vendors.GetVendorByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.history.ListHistoryByVendor(ctx, vendor.ID)
}
