// Package platformerrors provides layered, typed errors that map onto HTTP statuses.
package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Layer identifies where an error was raised.
type Layer string

const (
	LayerRoute      Layer = "route"
	LayerHandler    Layer = "handler"
	LayerDomain     Layer = "domain"
	LayerRepository Layer = "repository"
)

// ErrorType classifies an error for transport mapping.
type ErrorType string

const (
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeConflict      ErrorType = "conflict"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeDatabaseError ErrorType = "database_error"
	ErrorTypeInternal      ErrorType = "internal"
)

// RequestIDKey is the context key the HTTP layer stores the request id under.
type RequestIDKey struct{}

// PlatformError carries the layer, type and cause of a failure.
type PlatformError struct {
	layer     Layer
	errorType ErrorType
	message   string
	cause     error
	requestID string
}

// NewError creates a PlatformError, capturing the request id from ctx when present.
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, cause error) *PlatformError {
	var requestID string
	if ctx != nil {
		requestID, _ = ctx.Value(RequestIDKey{}).(string)
	}
	return &PlatformError{
		layer:     layer,
		errorType: errorType,
		message:   message,
		cause:     cause,
		requestID: requestID,
	}
}

func (e *PlatformError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *PlatformError) Unwrap() error {
	return e.cause
}

func (e *PlatformError) GetLayer() Layer { return e.layer }
func (e *PlatformError) GetErrorType() ErrorType { return e.errorType }
func (e *PlatformError) GetMessage() string { return e.message }
func (e *PlatformError) GetRequestID() string { return e.requestID }

// ErrorTypeToHTTPStatus maps an ErrorType to its HTTP status code.
func ErrorTypeToHTTPStatus(t ErrorType) int {
	switch t {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusBadRequest
	case ErrorTypeValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsType reports whether err wraps a PlatformError of the given type.
func IsType(err error, t ErrorType) bool {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.errorType == t
	}
	return false
}
