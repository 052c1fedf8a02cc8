// backend-go/internal/repository/repository.go
package repository

import (
	"context"

	"github.com/vendorpulse/backend-go/internal/domain"
)

type VendorRepository interface {
	CreateVendor(ctx context.Context, vendor *domain.Vendor) error
	GetVendorByCode(ctx context.Context, code string) (*domain.Vendor, error)
	GetVendorByID(ctx context.Context, id string) (*domain.Vendor, error)
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	// UpdateVendor writes identity fields only (name, contact details, address).
	UpdateVendor(ctx context.Context, vendor *domain.Vendor) error
	// UpdateVendorMetrics writes the four metric fields only.
	UpdateVendorMetrics(ctx context.Context, vendorID string, m domain.VendorMetrics) error
	// DeleteVendor removes the vendor and cascades to its orders and history.
	DeleteVendor(ctx context.Context, id string) error
}

type PurchaseOrderRepository interface {
	CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error
	GetPurchaseOrderByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error)
	ListPurchaseOrdersByVendor(ctx context.Context, vendorID string) ([]domain.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error
	DeletePurchaseOrder(ctx context.Context, id string) error
}

type PerformanceHistoryRepository interface {
	// AppendHistory inserts one immutable snapshot row.
	AppendHistory(ctx context.Context, h *domain.PerformanceHistory) error
	ListHistoryByVendor(ctx context.Context, vendorID string) ([]domain.PerformanceHistory, error)
}
