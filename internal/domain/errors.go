package domain

import (
	"errors"
	"fmt"
)

// NotFoundError signals a vendor or purchase order lookup miss. The message
// names the offending key so callers can surface it directly.
type NotFoundError struct {
	Resource string
	Field    string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %s does not exist", e.Resource, e.Field, e.Key)
}

// NewVendorNotFound builds a NotFoundError for a vendor code.
func NewVendorNotFound(code string) error {
	return &NotFoundError{Resource: "vendor", Field: "vendor code", Key: code}
}

// NewPurchaseOrderNotFound builds a NotFoundError for a PO number.
func NewPurchaseOrderNotFound(poNumber string) error {
	return &NotFoundError{Resource: "purchase order", Field: "po number", Key: poNumber}
}

// InvalidTransitionError signals a forbidden status change: a terminal order
// or a no-op transition to the current status.
type InvalidTransitionError struct {
	PONumber string
	From     OrderStatus
	To       OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("purchase order %s is already in %s status", e.PONumber, e.From)
	}
	return fmt.Sprintf("purchase order %s is %s and cannot transition to %s", e.PONumber, e.From, e.To)
}

// ValidationError signals malformed input from the collaborating API layer.
// Fields is always a fresh slice owned by this error value.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed for fields: %v", e.Fields)
}

// NewValidationError builds a ValidationError with its own copy of the
// offending field names.
func NewValidationError(fields ...string) error {
	owned := make([]string, len(fields))
	copy(owned, fields)
	return &ValidationError{Fields: owned}
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvalidTransition reports whether err is a rejected status change.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

// IsValidation reports whether err is malformed-input rejection.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
