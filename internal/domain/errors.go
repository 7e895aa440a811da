package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// UpstreamDataError indicates an upstream collaborator returned
	// malformed data (e.g. the model produced non-parseable JSON).
	UpstreamDataError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *UpstreamDataError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *UpstreamDataError) StatusCode() int { return http.StatusBadGateway }

// NewNotFoundError creates a NotFoundError for a resource
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewUnauthorizedError creates an UnauthorizedError with the given message
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// NewUpstreamDataError creates an UpstreamDataError with the given message
func NewUpstreamDataError(message string) *UpstreamDataError {
	return &UpstreamDataError{Message: message}
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstreamData = errors.New("upstream returned malformed data")
)

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *UpstreamDataError) Is(target error) bool { return target == ErrUpstreamData }
