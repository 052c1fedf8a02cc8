// backend-go/internal/metrics/formulas.go

// Package metrics holds the pure formulas deriving a vendor's four
// performance metrics from a snapshot of its purchase orders. Every formula
// returns ok=false on a zero denominator; the caller must then leave the
// vendor's stored value untouched rather than writing 0 or NaN.
package metrics

import (
	"math"

	"github.com/vendorpulse/backend-go/internal/domain"
)

// CeilRound2 rounds v up at two decimal places: ceil(v*100)/100.
func CeilRound2(v float64) float64 {
	return math.Ceil(v*100) / 100
}

// OnTimeDeliveryRate is the share of completed orders not flagged late,
// rounded up at two decimals on the ratio and expressed as a 0-100
// percentage.
func OnTimeDeliveryRate(orders []domain.PurchaseOrder) (float64, bool) {
	var completed, onTime int
	for i := range orders {
		if orders[i].Status != domain.StatusCompleted {
			continue
		}
		completed++
		if !orders[i].IsDeliveredLate {
			onTime++
		}
	}

	if completed == 0 {
		return 0, false
	}

	return CeilRound2(float64(onTime)/float64(completed)) * 100, true
}

// QualityRatingAvg is the arithmetic mean of quality ratings over completed
// orders that carry one. No rounding beyond natural floating precision.
func QualityRatingAvg(orders []domain.PurchaseOrder) (float64, bool) {
	var sum float64
	var rated int
	for i := range orders {
		if orders[i].Status != domain.StatusCompleted || orders[i].QualityRating == nil {
			continue
		}
		sum += *orders[i].QualityRating
		rated++
	}

	if rated == 0 {
		return 0, false
	}

	return sum / float64(rated), true
}

// AverageResponseTime is the mean of acknowledgment_date - issue_date in
// minutes over acknowledged orders, rounded up at two decimals.
func AverageResponseTime(orders []domain.PurchaseOrder) (float64, bool) {
	var totalMinutes float64
	var acked int
	for i := range orders {
		if orders[i].AcknowledgmentDate == nil {
			continue
		}
		totalMinutes += orders[i].AcknowledgmentDate.Sub(orders[i].IssueDate).Minutes()
		acked++
	}

	if acked == 0 {
		return 0, false
	}

	return CeilRound2(totalMinutes / float64(acked)), true
}

// FulfillmentRate is the share of all orders that reached completed, rounded
// up at two decimals on the ratio and expressed as a 0-100 percentage.
func FulfillmentRate(orders []domain.PurchaseOrder) (float64, bool) {
	if len(orders) == 0 {
		return 0, false
	}

	var completed int
	for i := range orders {
		if orders[i].Status == domain.StatusCompleted {
			completed++
		}
	}

	return CeilRound2(float64(completed)/float64(len(orders))) * 100, true
}
