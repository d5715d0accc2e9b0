// Package apperr maps domain and storage failures to HTTP responses.
//
// Handlers return or build an *AppError and hand it to Write; anything that is
// not an *AppError is treated as an internal error and its cause is logged,
// never sent to the client.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeWriteFailed  = "WRITE_FAILED"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`
	// Input echoes a rejected write payload so the client can keep its form state.
	Input any `json:"input,omitempty"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// WithInput attaches the rejected payload.
func (e *AppError) WithInput(input any) *AppError {
	e.Input = input
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found", HTTPStatus: http.StatusNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg, HTTPStatus: http.StatusUnauthorized}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg, HTTPStatus: http.StatusForbidden}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg, HTTPStatus: http.StatusConflict}
}

func Validation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, HTTPStatus: http.StatusBadRequest}
}

// WriteFailed is returned when a create/update/delete could not be persisted.
func WriteFailed(msg string, cause error) *AppError {
	return &AppError{Code: CodeWriteFailed, Message: msg, HTTPStatus: http.StatusInternalServerError, Cause: cause}
}

func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func Unavailable(msg string) *AppError {
	return &AppError{Code: CodeUnavailable, Message: msg, HTTPStatus: http.StatusServiceUnavailable}
}

// As extracts an *AppError from the chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// FromStore converts a storage error: record-not-found becomes 404, duplicate keys 409,
// anything else is wrapped by fallback.
func FromStore(err error, resource string, fallback func(error) *AppError) *AppError {
	if ae := As(err); ae != nil {
		return ae
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(resource + " already exists")
	default:
		return fallback(err)
	}
}

// Write renders err as JSON and aborts the request.
func Write(c *gin.Context, err error) {
	ae := As(err)
	if ae == nil {
		ae = Internal(err)
	}
	if ae.Cause != nil {
		_ = c.Error(ae.Cause)
	}
	c.AbortWithStatusJSON(ae.HTTPStatus, ae)
}
