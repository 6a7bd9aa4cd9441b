package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing product, supplier, user or transaction reference.
type NotFoundError struct {
	Resource string
}

func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ValidationError reports malformed or out-of-policy input.
type ValidationError struct {
	Reason string
}

func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InsufficientStockError is a specialization of validation: the requested
// quantity exceeds the product's available stock. Surfaced distinctly so
// callers can render an actionable message.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

// InvalidStateTransitionError reports an illegal transaction status change.
type InvalidStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// ConcurrencyConflictError is returned when the bounded optimistic retry on a
// product's stock record is exhausted.
type ConcurrencyConflictError struct {
	ProductID uint
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrent stock update conflict on product %d, retries exhausted", e.ProductID)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsInsufficientStock(err error) bool {
	var e *InsufficientStockError
	return errors.As(err, &e)
}

func IsInvalidStateTransition(err error) bool {
	var e *InvalidStateTransitionError
	return errors.As(err, &e)
}

func IsConcurrencyConflict(err error) bool {
	var e *ConcurrencyConflictError
	return errors.As(err, &e)
}
