// backend-go/internal/domain/models.go
package domain

import "time"

// Vendor represents a supplier tracked with four rolling performance metrics.
// Identity fields are written by vendor CRUD only; the metric fields are
// written exclusively by the performance recomputation.
type Vendor struct {
	ID                  string    `json:"id" db:"id"`
	Code                string    `json:"vendor_code" db:"code"`
	Name                string    `json:"name" db:"name"`
	ContactDetails      string    `json:"contact_details" db:"contact_details"`
	Address             string    `json:"address" db:"address"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate" db:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg" db:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time" db:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate" db:"fulfillment_rate"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// VendorMetrics is the metrics-only slice of a vendor record. UpdateMetrics
// writes these four fields and nothing else.
type VendorMetrics struct {
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate" db:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_avg" db:"quality_rating_avg"`
	AverageResponseTime float64 `json:"average_response_time" db:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate" db:"fulfillment_rate"`
}

// Metrics returns a copy of the vendor's current metric values.
func (v *Vendor) Metrics() VendorMetrics {
	return VendorMetrics{
		OnTimeDeliveryRate:  v.OnTimeDeliveryRate,
		QualityRatingAvg:    v.QualityRatingAvg,
		AverageResponseTime: v.AverageResponseTime,
		FulfillmentRate:     v.FulfillmentRate,
	}
}

// PurchaseOrder represents an order placed with a vendor. The status
// lifecycle and the late-delivery flag feed the vendor metrics.
type PurchaseOrder struct {
	ID                 string       `json:"id" db:"id"`
	PONumber           string       `json:"po_number" db:"po_number"`
	VendorID           string       `json:"vendor_id" db:"vendor_id"`
	OrderDate          time.Time    `json:"order_date" db:"order_date"`
	DeliveryDate       time.Time    `json:"delivery_date" db:"delivery_date"`
	IssueDate          time.Time    `json:"issue_date" db:"issue_date"`
	AcknowledgmentDate *time.Time   `json:"acknowledgment_date,omitempty" db:"acknowledgment_date"`
	Items              ItemMap      `json:"items" db:"items"`
	Quantity           int          `json:"quantity" db:"quantity"`
	Status             OrderStatus  `json:"status" db:"status"`
	PrevStatus         *OrderStatus `json:"prev_status,omitempty" db:"prev_status"`
	QualityRating      *float64     `json:"quality_rating,omitempty" db:"quality_rating"`
	IsDeliveredLate    bool         `json:"is_delivered_late" db:"is_delivered_late"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// Acknowledged reports whether the vendor has acknowledged the order.
func (po *PurchaseOrder) Acknowledged() bool {
	return po.AcknowledgmentDate != nil
}

// PerformanceHistory is an immutable snapshot of a vendor's four metrics
// taken right after a qualifying recomputation.
type PerformanceHistory struct {
	ID                  string    `json:"id" db:"id"`
	VendorID            string    `json:"vendor_id" db:"vendor_id"`
	RecordedAt          time.Time `json:"recorded_at" db:"recorded_at"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate" db:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg" db:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time" db:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate" db:"fulfillment_rate"`
}

// PerformanceSnapshot is the read-only projection of a vendor's current
// metrics served by the performance endpoint.
type PerformanceSnapshot struct {
	VendorName          string  `json:"vendor_name"`
	VendorCode          string  `json:"vendor_code"`
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_average"`
	AverageResponseTime float64 `json:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}
