package utils

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrCodePermissionDenied     ErrorCode = "PERMISSION_DENIED"
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeAlreadyProcessed     ErrorCode = "ALREADY_PROCESSED"
	ErrCodeExternalCallFailed   ErrorCode = "EXTERNAL_CALL_FAILED"
	ErrCodeExternalCallRejected ErrorCode = "EXTERNAL_CALL_REJECTED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// ServiceError is a failure surfaced directly to the caller with a
// stable code and a human-readable message. Operations never retry
// these; each order fails independently.
type ServiceError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewServiceError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func NewServiceErrorWithDetails(code ErrorCode, message string, details map[string]string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Details: details}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// HTTPStatus maps an error code to the response status used by handlers.
func (e *ServiceError) HTTPStatus() int {
	switch e.Code {
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeAlreadyProcessed:
		return http.StatusConflict
	case ErrCodeExternalCallFailed, ErrCodeExternalCallRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
