package order

import "net/http"

type ErrorCode string

const (
	ErrValidation        ErrorCode = "VALIDATION_ERROR"
	ErrOrderNotFound     ErrorCode = "ORDER_NOT_FOUND"
	ErrInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrForbidden         ErrorCode = "FORBIDDEN"
	ErrInternal          ErrorCode = "ORDER_INTERNAL"
)

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

func validationError(message string, details map[string]any) *Error {
	return &Error{Code: ErrValidation, Message: message, StatusCode: http.StatusBadRequest, Details: details}
}

func notFoundError() *Error {
	return &Error{Code: ErrOrderNotFound, Message: "Order not found", StatusCode: http.StatusNotFound}
}

func internalError(message string) *Error {
	return &Error{Code: ErrInternal, Message: message, StatusCode: http.StatusInternalServerError}
}
