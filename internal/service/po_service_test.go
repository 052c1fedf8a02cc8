package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vendorpulse/backend-go/internal/cache"
	"github.com/vendorpulse/backend-go/internal/domain"
	"github.com/vendorpulse/backend-go/internal/repository/memory"
)

// testClock lets the lifecycle and the trigger share a controllable now().
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time {
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

type testStack struct {
	store   *memory.Store
	clock   *testClock
	vendors *VendorService
	orders  *PurchaseOrderService
	perf    *PerformanceService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	store := memory.NewStore()
	clock := &testClock{current: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	perf := NewPerformanceService(store, store, store, cache.NewNoopPerformanceCache())
	perf.now = clock.Now

	orders := NewPurchaseOrderService(store, store, perf)
	orders.now = clock.Now

	vendors := NewVendorService(store, store, cache.NewNoopPerformanceCache())
	vendors.now = clock.Now

	return &testStack{store: store, clock: clock, vendors: vendors, orders: orders, perf: perf}
}

func (ts *testStack) mustCreateVendor(t *testing.T, code string) *domain.Vendor {
	t.Helper()

	vendor, err := ts.vendors.CreateVendor(context.Background(), VendorInput{
		Code:           code,
		Name:           "Vendor " + code,
		ContactDetails: "ops@" + code + ".example.com",
		Address:        "1 Supply Street",
	})
	if err != nil {
		t.Fatalf("create vendor %s: %v", code, err)
	}

	return vendor
}

func (ts *testStack) mustCreateOrder(t *testing.T, poNumber, vendorCode string) *domain.PurchaseOrder {
	t.Helper()

	po, err := ts.orders.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		PONumber:   poNumber,
		VendorCode: vendorCode,
		Items:      domain.ItemMap{"bolts": {Quantity: 100, Price: 0.25}},
	})
	if err != nil {
		t.Fatalf("create order %s: %v", poNumber, err)
	}

	return po
}

func (ts *testStack) vendorByCode(t *testing.T, code string) *domain.Vendor {
	t.Helper()

	vendor, err := ts.store.GetVendorByCode(context.Background(), code)
	if err != nil {
		t.Fatalf("load vendor %s: %v", code, err)
	}

	return vendor
}

func (ts *testStack) historyCount(t *testing.T, vendorID string) int {
	t.Helper()

	rows, err := ts.store.ListHistoryByVendor(context.Background(), vendorID)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}

	return len(rows)
}

func TestCreatePurchaseOrderUnknownVendor(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	_, err := ts.orders.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		PONumber:   "PO-1",
		VendorCode: "999",
		Items:      domain.ItemMap{"bolts": {Quantity: 1, Price: 1}},
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "999") {
		t.Fatalf("error should name the vendor code, got %q", err.Error())
	}

	orders, err := ts.store.ListPurchaseOrders(ctx)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("no order row should be created, found %d", len(orders))
	}
}

func TestCreatePurchaseOrderDefaults(t *testing.T) {
	ts := newTestStack(t)
	ts.mustCreateVendor(t, "V100")

	po, err := ts.orders.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		PONumber:   "PO-1",
		VendorCode: "V100",
		Items: domain.ItemMap{
			"bolts": {Quantity: 100, Price: 0.25},
			"nuts":  {Quantity: 200, Price: 0.10},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if po.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", po.Status)
	}
	if po.Quantity != 2 {
		t.Errorf("quantity = %d, want item count 2", po.Quantity)
	}
	wantDeadline := ts.clock.Now().Add(24 * time.Hour)
	if !po.DeliveryDate.Equal(wantDeadline) {
		t.Errorf("delivery date = %v, want %v", po.DeliveryDate, wantDeadline)
	}
	if !po.IssueDate.Equal(ts.clock.Now()) {
		t.Errorf("issue date = %v, want creation time", po.IssueDate)
	}
	if po.PrevStatus != nil {
		t.Errorf("prev status should be unset on creation")
	}
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	ts := newTestStack(t)
	ts.mustCreateVendor(t, "V100")

	_, err := ts.orders.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		PONumber:   "PO-1",
		VendorCode: "V100",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}
}

func TestUpdatePurchaseOrder(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()
	ts.mustCreateVendor(t, "V100")
	ts.mustCreateOrder(t, "PO-1", "V100")

	newDeadline := ts.clock.Now().Add(72 * time.Hour)
	po, err := ts.orders.UpdatePurchaseOrder(ctx, "PO-1", UpdatePurchaseOrderInput{
		Items: domain.ItemMap{
			"bolts": {Quantity: 50, Price: 0.25},
			"nuts":  {Quantity: 50, Price: 0.10},
		},
		DeliveryDate: &newDeadline,
	})
	if err != nil {
		t.Fatalf("update order: %v", err)
	}

	if po.Quantity != 2 {
		t.Errorf("quantity = %d, want item count 2", po.Quantity)
	}
	if !po.DeliveryDate.Equal(newDeadline) {
		t.Errorf("delivery date = %v, want %v", po.DeliveryDate, newDeadline)
	}
	if po.Status != domain.StatusPending {
		t.Errorf("field update must not touch status, got %s", po.Status)
	}
}

func TestApplyTransitionGuards(t *testing.T) {
	testCases := []struct {
		name    string
		prepare domain.OrderStatus // status to drive the order into first
		target  domain.OrderStatus
	}{
		{name: "same status is a no-op transition", prepare: domain.StatusPending, target: domain.StatusPending},
		{name: "completed is terminal", prepare: domain.StatusCompleted, target: domain.StatusCanceled},
		{name: "canceled is terminal", prepare: domain.StatusCanceled, target: domain.StatusCompleted},
		{name: "canceled rejects pending too", prepare: domain.StatusCanceled, target: domain.StatusPending},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestStack(t)
			ctx := context.Background()
			ts.mustCreateVendor(t, "V100")
			ts.mustCreateOrder(t, "PO-1", "V100")

			if tc.prepare != domain.StatusPending {
				if _, err := ts.orders.ApplyTransition(ctx, "PO-1", tc.prepare, nil); err != nil {
					t.Fatalf("prepare transition: %v", err)
				}
			}

			_, err := ts.orders.ApplyTransition(ctx, "PO-1", tc.target, nil)
			if !domain.IsInvalidTransition(err) {
				t.Fatalf("expected InvalidTransition, got %v", err)
			}
		})
	}
}

func TestApplyTransitionUnknownOrder(t *testing.T) {
	ts := newTestStack(t)

	_, err := ts.orders.ApplyTransition(context.Background(), "PO-missing", domain.StatusCompleted, nil)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestApplyTransitionTracksPrevStatusAndLateness(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()
	ts.mustCreateVendor(t, "V100")
	ts.mustCreateOrder(t, "PO-1", "V100")

	// Past the 24h delivery deadline.
	ts.clock.Advance(25 * time.Hour)

	po, err := ts.orders.ApplyTransition(ctx, "PO-1", domain.StatusCompleted, nil)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}

	if po.PrevStatus == nil || *po.PrevStatus != domain.StatusPending {
		t.Errorf("prev status = %v, want pending", po.PrevStatus)
	}
	if po.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", po.Status)
	}
	if !po.IsDeliveredLate {
		t.Errorf("order transitioned after deadline should be flagged late")
	}

	// Lateness is monotonic: a later acknowledgment never clears it.
	acked, err := ts.orders.Acknowledge(ctx, "PO-1")
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if !acked.IsDeliveredLate {
		t.Errorf("late flag must survive acknowledgment")
	}
}

func TestOnTimeDeliveryRateScenario(t *testing.T) {
	// Three completed orders, two on time and one late: ratio 2/3 rounds up
	// to 0.67, stored as 67.0.
	ts := newTestStack(t)
	ctx := context.Background()
	vendor := ts.mustCreateVendor(t, "V100")

	ts.mustCreateOrder(t, "PO-1", "V100")
	ts.mustCreateOrder(t, "PO-2", "V100")
	ts.mustCreateOrder(t, "PO-3", "V100")

	if _, err := ts.orders.ApplyTransition(ctx, "PO-1", domain.StatusCompleted, nil); err != nil {
		t.Fatalf("transition PO-1: %v", err)
	}
	if _, err := ts.orders.ApplyTransition(ctx, "PO-2", domain.StatusCompleted, nil); err != nil {
		t.Fatalf("transition PO-2: %v", err)
	}

	ts.clock.Advance(25 * time.Hour)
	if _, err := ts.orders.ApplyTransition(ctx, "PO-3", domain.StatusCompleted, nil); err != nil {
		t.Fatalf("transition PO-3: %v", err)
	}

	got := ts.vendorByCode(t, "V100")
	if got.OnTimeDeliveryRate != 67.0 {
		t.Errorf("on_time_delivery_rate = %v, want 67.0", got.OnTimeDeliveryRate)
	}
	if got.FulfillmentRate != 100.0 {
		t.Errorf("fulfillment_rate = %v, want 100.0", got.FulfillmentRate)
	}
	if n := ts.historyCount(t, vendor.ID); n != 3 {
		t.Errorf("history snapshots = %d, want one per transition (3)", n)
	}
}

func TestFulfillmentRateScenario(t *testing.T) {
	// Four orders, one completed: 0.25 -> 25.0.
	ts := newTestStack(t)
	ctx := context.Background()
	ts.mustCreateVendor(t, "V100")

	for _, n := range []string{"PO-1", "PO-2", "PO-3", "PO-4"} {
		ts.mustCreateOrder(t, n, "V100")
	}

	if _, err := ts.orders.ApplyTransition(ctx, "PO-1", domain.StatusCompleted, nil); err != nil {
		t.Fatalf("transition: %v", err)
	}

	got := ts.vendorByCode(t, "V100")
	if got.FulfillmentRate != 25.0 {
		t.Errorf("fulfillment_rate = %v, want 25.0", got.FulfillmentRate)
	}
}

func TestQualityRatingAverageOnTransition(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()
	ts.mustCreateVendor(t, "V100")
	ts.mustCreateOrder(t, "PO-1", "V100")
	ts.mustCreateOrder(t, "PO-2", "V100")

	four, five := 4.0, 5.0
	if _, err := ts.orders.ApplyTransition(ctx, "PO-1", domain.StatusCompleted, &four); err != nil {
		t.Fatalf("transition PO-1: %v", err)
	}
	if _, err := ts.orders.ApplyTransition(ctx, "PO-2", domain.StatusCompleted, &five); err != nil {
		t.Fatalf("transition PO-2: %v", err)
	}

	got := ts.vendorByCode(t, "V100")
	if got.QualityRatingAvg != 4.5 {
		t.Errorf("quality_rating_avg = %v, want 4.5", got.QualityRatingAvg)
	}
}

func TestAcknowledgeIsIdempotent(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()
	ts.mustCreateVendor(t, "V100")
	ts.mustCreateOrder(t, "PO-1", "V100")

	ts.clock.Advance(30 * time.Minute)
	first, err := ts.orders.Acknowledge(ctx, "PO-1")
	if err != nil {
		t.Fatalf("first acknowledge: %v", err)
	}

	ts.clock.Advance(30 * time.Minute)
	second, err := ts.orders.Acknowledge(ctx, "PO-1")
	if err != nil {
		t.Fatalf("second acknowledge: %v", err)
	}

	if second.AcknowledgmentDate.Equal(*first.AcknowledgmentDate) {
		t.Errorf("repeated acknowledgment should refresh the timestamp")
	}
	if second.Status != domain.StatusPending || second.PrevStatus != nil {
		t.Errorf("acknowledgment must not touch status (%s) or prev status (%v)", second.Status, second.PrevStatus)
	}

	// Response time tracks the latest acknowledgment: 60 minutes from issue.
	got := ts.vendorByCode(t, "V100")
	if got.AverageResponseTime != 60.0 {
		t.Errorf("average_response_time = %v, want 60.0", got.AverageResponseTime)
	}
}

func TestAcknowledgeUnknownOrder(t *testing.T) {
	ts := newTestStack(t)

	_, err := ts.orders.Acknowledge(context.Background(), "PO-missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestAcknowledgeCompletedSkipsResponseTime(t *testing.T) {
	// Acknowledging an order that already left pending refreshes the
	// timestamp but deliberately does not recompute average response time.
	ts := newTestStack(t)
	ctx := context.Background()
	ts.mustCreateVendor(t, "V100")
	ts.mustCreateOrder(t, "PO-1", "V100")

	if _, err := ts.orders.ApplyTransition(ctx, "PO-1", domain.StatusCompleted, nil); err != nil {
		t.Fatalf("transition: %v", err)
	}

	ts.clock.Advance(45 * time.Minute)
	po, err := ts.orders.Acknowledge(ctx, "PO-1")
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if po.AcknowledgmentDate == nil {
		t.Fatalf("acknowledgment date should be stamped")
	}

	got := ts.vendorByCode(t, "V100")
	if got.AverageResponseTime != 0 {
		t.Errorf("average_response_time = %v, want untouched 0", got.AverageResponseTime)
	}
}

func TestAcknowledgeCanceledWritesNothing(t *testing.T) {
	// No trigger rule holds: not completed, not pending, no transition.
	ts := newTestStack(t)
	ctx := context.Background()
	vendor := ts.mustCreateVendor(t, "V100")
	ts.mustCreateOrder(t, "PO-1", "V100")

	if _, err := ts.orders.ApplyTransition(ctx, "PO-1", domain.StatusCanceled, nil); err != nil {
		t.Fatalf("transition: %v", err)
	}
	baseline := ts.historyCount(t, vendor.ID)
	before := *ts.vendorByCode(t, "V100")

	if _, err := ts.orders.Acknowledge(ctx, "PO-1"); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	after := *ts.vendorByCode(t, "V100")
	if before.Metrics() != after.Metrics() {
		t.Errorf("metrics changed: %+v -> %+v", before.Metrics(), after.Metrics())
	}
	if n := ts.historyCount(t, vendor.ID); n != baseline {
		t.Errorf("history snapshots = %d, want unchanged %d", n, baseline)
	}
}

func TestTransitionWithoutCompletedLeavesDeliveryRate(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()
	vendor := ts.mustCreateVendor(t, "V100")
	ts.mustCreateOrder(t, "PO-1", "V100")

	// Simulate a previously derived rate; a cancel transition must not touch it.
	if err := ts.store.UpdateVendorMetrics(ctx, vendor.ID, domain.VendorMetrics{OnTimeDeliveryRate: 55.0}); err != nil {
		t.Fatalf("seed metrics: %v", err)
	}

	if _, err := ts.orders.ApplyTransition(ctx, "PO-1", domain.StatusCanceled, nil); err != nil {
		t.Fatalf("transition: %v", err)
	}

	got := ts.vendorByCode(t, "V100")
	if got.OnTimeDeliveryRate != 55.0 {
		t.Errorf("on_time_delivery_rate = %v, want prior 55.0", got.OnTimeDeliveryRate)
	}
	if got.FulfillmentRate != 0.0 {
		t.Errorf("fulfillment_rate = %v, want 0.0 (zero completed of one)", got.FulfillmentRate)
	}
}

func TestHistorySnapshotCapturesPostRecomputeValues(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()
	vendor := ts.mustCreateVendor(t, "V100")
	ts.mustCreateOrder(t, "PO-1", "V100")

	rating := 5.0
	if _, err := ts.orders.ApplyTransition(ctx, "PO-1", domain.StatusCompleted, &rating); err != nil {
		t.Fatalf("transition: %v", err)
	}

	rows, err := ts.store.ListHistoryByVendor(ctx, vendor.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("history snapshots = %d, want exactly 1", len(rows))
	}

	snapshot := rows[0]
	if snapshot.OnTimeDeliveryRate != 100.0 {
		t.Errorf("snapshot on_time_delivery_rate = %v, want 100.0", snapshot.OnTimeDeliveryRate)
	}
	if snapshot.QualityRatingAvg != 5.0 {
		t.Errorf("snapshot quality_rating_avg = %v, want 5.0", snapshot.QualityRatingAvg)
	}
	if snapshot.FulfillmentRate != 100.0 {
		t.Errorf("snapshot fulfillment_rate = %v, want 100.0", snapshot.FulfillmentRate)
	}
	if !snapshot.RecordedAt.Equal(ts.clock.Now()) {
		t.Errorf("snapshot recorded_at = %v, want clock time", snapshot.RecordedAt)
	}
}
