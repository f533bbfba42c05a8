package register

import "net/http"

type ErrorCode string

const (
	ErrValidation         ErrorCode = "VALIDATION_ERROR"
	ErrSessionAlreadyOpen ErrorCode = "SESSION_ALREADY_OPEN"
	ErrSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrSessionClosed      ErrorCode = "SESSION_CLOSED"
	ErrInternal           ErrorCode = "SESSION_INTERNAL"
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

func notFoundError() *Error {
	return &Error{Code: ErrSessionNotFound, Message: "Session not found", StatusCode: http.StatusNotFound}
}

func internalError(message string) *Error {
	return &Error{Code: ErrInternal, Message: message, StatusCode: http.StatusInternalServerError}
}
