package payment

import "net/http"

type ErrorCode string

const (
	ErrValidation            ErrorCode = "VALIDATION_ERROR"
	ErrOrderNotFound         ErrorCode = "ORDER_NOT_FOUND"
	ErrOrderNotPayable       ErrorCode = "ORDER_NOT_PAYABLE"
	ErrAmountMismatch        ErrorCode = "AMOUNT_MISMATCH"
	ErrSplitAmountMismatch   ErrorCode = "SPLIT_AMOUNT_MISMATCH"
	ErrPaymentNotFound       ErrorCode = "PAYMENT_NOT_FOUND"
	ErrRefundExceedsOriginal ErrorCode = "REFUND_EXCEEDS_ORIGINAL"
	ErrInternal              ErrorCode = "PAYMENT_INTERNAL"
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

func businessError(code ErrorCode, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, StatusCode: http.StatusBadRequest, Details: details}
}

func internalError(message string) *Error {
	return &Error{Code: ErrInternal, Message: message, StatusCode: http.StatusInternalServerError}
}
