package domain

import "strings"

// OrderStatus is the lifecycle state of a purchase order. Completed and
// canceled are terminal.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCanceled  OrderStatus = "canceled"
)

var orderStatuses = map[string]OrderStatus{
	"pending":   StatusPending,
	"completed": StatusCompleted,
	"canceled":  StatusCanceled,
}

// ParseOrderStatus returns the status for a given label (case-insensitive).
func ParseOrderStatus(label string) (OrderStatus, bool) {
	status, ok := orderStatuses[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// Terminal reports whether no further status transitions are permitted.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

func (s OrderStatus) String() string {
	return string(s)
}
