// backend-go/internal/repository/memory/memory.go

// Package memory provides a mutex-guarded in-memory implementation of the
// repository interfaces. It backs unit tests and dry-run tooling; the
// production store is the postgres package.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vendorpulse/backend-go/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	vendors map[string]domain.Vendor            // by vendor ID
	orders  map[string]domain.PurchaseOrder     // by order ID
	history map[string][]domain.PerformanceHistory // by vendor ID, append order
}

func NewStore() *Store {
	return &Store{
		vendors: make(map[string]domain.Vendor),
		orders:  make(map[string]domain.PurchaseOrder),
		history: make(map[string][]domain.PerformanceHistory),
	}
}

func (s *Store) CreateVendor(_ context.Context, vendor *domain.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.vendors {
		if v.Code == vendor.Code {
			return fmt.Errorf("vendor code %s already exists", vendor.Code)
		}
	}
	s.vendors[vendor.ID] = *vendor

	return nil
}

func (s *Store) GetVendorByCode(_ context.Context, code string) (*domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.vendors {
		if v.Code == code {
			vendor := v
			return &vendor, nil
		}
	}

	return nil, domain.NewVendorNotFound(code)
}

func (s *Store) GetVendorByID(_ context.Context, id string) (*domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vendors[id]
	if !ok {
		return nil, domain.NewVendorNotFound(id)
	}
	vendor := v

	return &vendor, nil
}

func (s *Store) ListVendors(_ context.Context) ([]domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vendors := make([]domain.Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		vendors = append(vendors, v)
	}
	sort.Slice(vendors, func(i, j int) bool { return vendors[i].Code < vendors[j].Code })

	return vendors, nil
}

func (s *Store) UpdateVendor(_ context.Context, vendor *domain.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.vendors[vendor.ID]
	if !ok {
		return domain.NewVendorNotFound(vendor.Code)
	}
	existing.Name = vendor.Name
	existing.ContactDetails = vendor.ContactDetails
	existing.Address = vendor.Address
	s.vendors[vendor.ID] = existing

	return nil
}

func (s *Store) UpdateVendorMetrics(_ context.Context, vendorID string, m domain.VendorMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.vendors[vendorID]
	if !ok {
		return domain.NewVendorNotFound(vendorID)
	}
	existing.OnTimeDeliveryRate = m.OnTimeDeliveryRate
	existing.QualityRatingAvg = m.QualityRatingAvg
	existing.AverageResponseTime = m.AverageResponseTime
	existing.FulfillmentRate = m.FulfillmentRate
	s.vendors[vendorID] = existing

	return nil
}

func (s *Store) DeleteVendor(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vendors[id]; !ok {
		return domain.NewVendorNotFound(id)
	}
	delete(s.vendors, id)
	for orderID, po := range s.orders {
		if po.VendorID == id {
			delete(s.orders, orderID)
		}
	}
	delete(s.history, id)

	return nil
}

func (s *Store) CreatePurchaseOrder(_ context.Context, po *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orders {
		if existing.PONumber == po.PONumber {
			return fmt.Errorf("po number %s already exists", po.PONumber)
		}
	}
	s.orders[po.ID] = *po

	return nil
}

func (s *Store) GetPurchaseOrderByNumber(_ context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, po := range s.orders {
		if po.PONumber == poNumber {
			order := po
			return &order, nil
		}
	}

	return nil, domain.NewPurchaseOrderNotFound(poNumber)
}

func (s *Store) ListPurchaseOrders(_ context.Context) ([]domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.PurchaseOrder, 0, len(s.orders))
	for _, po := range s.orders {
		orders = append(orders, po)
	}
	sortOrders(orders)

	return orders, nil
}

func (s *Store) ListPurchaseOrdersByVendor(_ context.Context, vendorID string) ([]domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []domain.PurchaseOrder
	for _, po := range s.orders {
		if po.VendorID == vendorID {
			orders = append(orders, po)
		}
	}
	sortOrders(orders)

	return orders, nil
}

func (s *Store) UpdatePurchaseOrder(_ context.Context, po *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[po.ID]; !ok {
		return domain.NewPurchaseOrderNotFound(po.PONumber)
	}
	s.orders[po.ID] = *po

	return nil
}

func (s *Store) DeletePurchaseOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return domain.NewPurchaseOrderNotFound(id)
	}
	delete(s.orders, id)

	return nil
}

func (s *Store) AppendHistory(_ context.Context, h *domain.PerformanceHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[h.VendorID] = append(s.history[h.VendorID], *h)

	return nil
}

func (s *Store) ListHistoryByVendor(_ context.Context, vendorID string) ([]domain.PerformanceHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.PerformanceHistory, len(s.history[vendorID]))
	copy(rows, s.history[vendorID])

	return rows, nil
}

func sortOrders(orders []domain.PurchaseOrder) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].PONumber < orders[j].PONumber
		}
		return orders[i].OrderDate.Before(orders[j].OrderDate)
	})
}
