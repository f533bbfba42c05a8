package promo

import "net/http"

type ErrorCode string

const (
	ErrInvalidDiscount          ErrorCode = "INVALID_DISCOUNT"
	ErrPromoNotFound            ErrorCode = "PROMO_NOT_FOUND"
	ErrPromoExpired             ErrorCode = "PROMO_EXPIRED"
	ErrPromoNotYetValid         ErrorCode = "PROMO_NOT_YET_VALID"
	ErrPromoBranchMismatch      ErrorCode = "PROMO_BRANCH_MISMATCH"
	ErrPromoMinOrderNotMet      ErrorCode = "PROMO_MIN_ORDER_NOT_MET"
	ErrPromoUsageLimitReached   ErrorCode = "PROMO_USAGE_LIMIT_REACHED"
	ErrPromoPerUserLimitReached ErrorCode = "PROMO_PER_USER_LIMIT_REACHED"
	ErrPromoInternal            ErrorCode = "PROMO_INTERNAL"
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

func ValidationError(code ErrorCode, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, StatusCode: http.StatusBadRequest, Details: details}
}
