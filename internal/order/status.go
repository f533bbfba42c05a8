package order

import (
	"net/http"

	"zaiqa-pos/internal/auth"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending              PaymentStatus = "PENDING"
	PaymentAwaitingVerification PaymentStatus = "AWAITING_VERIFICATION"
	PaymentPaid                 PaymentStatus = "PAID"
	PaymentRefunded             PaymentStatus = "REFUNDED"
)

type Type string

const (
	TypeDelivery Type = "DELIVERY"
	TypePickup   Type = "PICKUP"
	TypeDineIn   Type = "DINE_IN"
)

type Source string

const (
	SourceOnline Source = "ONLINE"
	SourcePOS    Source = "POS"
	SourcePhone  Source = "PHONE"
)

// READY and COMPLETED are not cancellable; COMPLETED and CANCELLED are
// terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func ValidStatus(value Status) bool {
	_, ok := allowedTransitions[value]
	return ok
}

// Transition validates a requested status change. It is pure: callers
// apply the result only when no error is returned, so an invalid
// request leaves the order untouched.
func Transition(current, requested Status, role auth.UserRole) *Error {
	if !role.CanTransitionOrders() {
		return &Error{
			Code:       ErrForbidden,
			Message:    "Only staff may change order status",
			StatusCode: http.StatusForbidden,
			Details:    map[string]any{"role": string(role)},
		}
	}
	if !ValidStatus(requested) {
		return invalidTransition(current, requested)
	}
	for _, next := range allowedTransitions[current] {
		if next == requested {
			return nil
		}
	}
	return invalidTransition(current, requested)
}

func invalidTransition(current, requested Status) *Error {
	return &Error{
		Code:       ErrInvalidTransition,
		Message:    "Cannot transition order from " + string(current) + " to " + string(requested),
		StatusCode: http.StatusBadRequest,
		Details: map[string]any{
			"currentStatus":   string(current),
			"requestedStatus": string(requested),
		},
	}
}
