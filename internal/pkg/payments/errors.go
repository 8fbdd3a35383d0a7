package payments

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrPaymentNotFound is returned when no payment row matches the gateway order id.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrUnauthenticated is returned when no authenticated user id was supplied.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNotOwner is returned when the caller is not the booking's client.
	ErrNotOwner = errors.New("booking belongs to another client")
	// ErrAlreadyPaid guards against duplicate checkout for a paid booking.
	ErrAlreadyPaid = errors.New("booking deposit already paid")
	// ErrBookingNotPayable is returned for bookings that can no longer accept
	// a deposit, such as cancelled ones.
	ErrBookingNotPayable = errors.New("booking can no longer accept a deposit")
	// ErrInvalidSignature marks a payload that fails HMAC verification. Terminal, never retried.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrDepositMismatch is returned when the stored deposit disagrees with a
	// fresh computation from the booking total.
	ErrDepositMismatch = errors.New("stored deposit amount does not match computed deposit")
)

// GatewayError wraps a failed call to the payment gateway. The caller may
// retry order creation because no local state is committed before the
// gateway call succeeds.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
