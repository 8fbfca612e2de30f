package services

import (
	"errors"
	"fmt"
)

// Errors shared across services. More specific sentinels live next to the
// service that owns them.
var (
	// ErrValidation marks malformed input. It is never partially applied:
	// a validation failure leaves no rows behind.
	ErrValidation = errors.New("validation failed")

	// ErrOrderRejected is the acceptance-gate denial. Not a system fault;
	// customers see a coarse "not accepting orders" message and there is no
	// point retrying until the tenant recharges or is reactivated.
	ErrOrderRejected = errors.New("restaurant is not accepting orders")

	// ErrInvalidTransition marks an illegal order status change, such as
	// moving an order out of a terminal state.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// RejectReason says why the acceptance gate denied an order.
type RejectReason string

const (
	RejectLowBalance RejectReason = "low_balance"
	RejectInactive   RejectReason = "inactive"
)

// OrderRejectedError carries the gate's denial reason. It unwraps to
// ErrOrderRejected so callers can match with errors.Is.
type OrderRejectedError struct {
	Reason RejectReason
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrOrderRejected.Error(), e.Reason)
}

func (e *OrderRejectedError) Unwrap() error {
	return ErrOrderRejected
}
