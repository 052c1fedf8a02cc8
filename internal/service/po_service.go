// backend-go/internal/service/po_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vendorpulse/backend-go/internal/domain"
	"github.com/vendorpulse/backend-go/internal/repository"
)

const defaultDeliveryWindow = 24 * time.Hour

// PurchaseOrderService owns PO CRUD and the status lifecycle. Every mutating
// operation persists the order first and then invokes the performance
// recomputation explicitly, so ordering and failure boundaries are visible
// instead of hidden behind a save hook.
type PurchaseOrderService struct {
	orders  repository.PurchaseOrderRepository
	vendors repository.VendorRepository
	perf    *PerformanceService
	now     func() time.Time
}

func NewPurchaseOrderService(
	orders repository.PurchaseOrderRepository,
	vendors repository.VendorRepository,
	perf *PerformanceService,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orders:  orders,
		vendors: vendors,
		perf:    perf,
		now:     time.Now,
	}
}

type CreatePurchaseOrderInput struct {
	PONumber     string
	VendorCode   string
	Items        domain.ItemMap
	DeliveryDate *time.Time
}

// CreatePurchaseOrder places a new order with an existing vendor. The
// delivery deadline defaults to 24h from now when not supplied.
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput) (*domain.PurchaseOrder, error) {
	poNumber := strings.TrimSpace(input.PONumber)
	vendorCode := strings.TrimSpace(input.VendorCode)

	var missing []string
	if poNumber == "" {
		missing = append(missing, "po_number")
	}
	if vendorCode == "" {
		missing = append(missing, "vendor_code")
	}
	if len(input.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	vendor, err := s.vendors.GetVendorByCode(ctx, vendorCode)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	deliveryDate := createdAt.Add(defaultDeliveryWindow)
	if input.DeliveryDate != nil {
		deliveryDate = *input.DeliveryDate
	}

	po := &domain.PurchaseOrder{
		ID:           uuid.NewString(),
		PONumber:     poNumber,
		VendorID:     vendor.ID,
		OrderDate:    createdAt,
		DeliveryDate: deliveryDate,
		IssueDate:    createdAt,
		Items:        input.Items,
		Quantity:     len(input.Items),
		Status:       domain.StatusPending,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if err := s.orders.CreatePurchaseOrder(ctx, po); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}

	log.Info().Str("po_number", poNumber).Str("vendor_code", vendorCode).Msg("purchase order created")

	return po, nil
}

func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	return s.orders.GetPurchaseOrderByNumber(ctx, poNumber)
}

// ListPurchaseOrders returns all orders, or only a vendor's orders when
// vendorCode is non-empty.
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, vendorCode string) ([]domain.PurchaseOrder, error) {
	if vendorCode == "" {
		return s.orders.ListPurchaseOrders(ctx)
	}

	vendor, err := s.vendors.GetVendorByCode(ctx, vendorCode)
	if err != nil {
		return nil, err
	}

	return s.orders.ListPurchaseOrdersByVendor(ctx, vendor.ID)
}

type UpdatePurchaseOrderInput struct {
	Items        domain.ItemMap
	DeliveryDate *time.Time
}

// UpdatePurchaseOrder edits the mutable order fields. Status changes go
// through ApplyTransition and acknowledgment through Acknowledge.
func (s *PurchaseOrderService) UpdatePurchaseOrder(ctx context.Context, poNumber string, input UpdatePurchaseOrderInput) (*domain.PurchaseOrder, error) {
	po, err := s.orders.GetPurchaseOrderByNumber(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	if len(input.Items) > 0 {
		po.Items = input.Items
		po.Quantity = len(input.Items)
	}
	if input.DeliveryDate != nil {
		po.DeliveryDate = *input.DeliveryDate
	}

	if err := s.orders.UpdatePurchaseOrder(ctx, po); err != nil {
		return nil, fmt.Errorf("update purchase order: %w", err)
	}

	return po, nil
}

func (s *PurchaseOrderService) DeletePurchaseOrder(ctx context.Context, poNumber string) error {
	po, err := s.orders.GetPurchaseOrderByNumber(ctx, poNumber)
	if err != nil {
		return err
	}

	return s.orders.DeletePurchaseOrder(ctx, po.ID)
}

// ApplyTransition moves an order to a new lifecycle status and triggers the
// metric recomputation. Completed and canceled are terminal; transitioning
// to the current status is forbidden. The late-delivery flag is computed
// here, at transition time, and never reset once true.
func (s *PurchaseOrderService) ApplyTransition(ctx context.Context, poNumber string, newStatus domain.OrderStatus, qualityRating *float64) (*domain.PurchaseOrder, error) {
	po, err := s.orders.GetPurchaseOrderByNumber(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	if po.Status.Terminal() {
		return nil, &domain.InvalidTransitionError{PONumber: poNumber, From: po.Status, To: newStatus}
	}
	if po.Status == newStatus {
		return nil, &domain.InvalidTransitionError{PONumber: poNumber, From: po.Status, To: newStatus}
	}

	prev := po.Status
	po.PrevStatus = &prev
	po.Status = newStatus
	if qualityRating != nil {
		po.QualityRating = qualityRating
	}
	if s.now().After(po.DeliveryDate) {
		po.IsDeliveredLate = true
	}

	if err := s.orders.UpdatePurchaseOrder(ctx, po); err != nil {
		return nil, fmt.Errorf("apply transition: %w", err)
	}

	if err := s.perf.Recompute(ctx, po, true); err != nil {
		return nil, fmt.Errorf("apply transition: %w", err)
	}

	log.Info().
		Str("po_number", poNumber).
		Str("from", prev.String()).
		Str("to", newStatus.String()).
		Bool("delivered_late", po.IsDeliveredLate).
		Msg("purchase order transitioned")

	return po, nil
}

// Acknowledge stamps the vendor acknowledgment time on an order. Repeated
// acknowledgment simply refreshes the timestamp; status and previous status
// are untouched.
func (s *PurchaseOrderService) Acknowledge(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	po, err := s.orders.GetPurchaseOrderByNumber(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	ackedAt := s.now()
	po.AcknowledgmentDate = &ackedAt

	if err := s.orders.UpdatePurchaseOrder(ctx, po); err != nil {
		return nil, fmt.Errorf("acknowledge: %w", err)
	}

	if err := s.perf.Recompute(ctx, po, false); err != nil {
		return nil, fmt.Errorf("acknowledge: %w", err)
	}

	log.Info().Str("po_number", poNumber).Time("acknowledged_at", ackedAt).Msg("purchase order acknowledged")

	return po, nil
}
