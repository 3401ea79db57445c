package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrNotFound            = NewNotFoundError("resource", "resource not found")
	ErrInvalidArgument     = NewValidationError("", "invalid argument")
	ErrInternal            = NewInternalError("internal server error", nil)
	ErrUnauthorized        = NewUnauthorizedError("unauthorized")
	ErrPermissionDenied    = NewForbiddenError("permission denied")
	ErrInvalidCredentials  = NewUnauthorizedError("invalid email or password")
	ErrInsufficientStock   = NewValidationError("quantity", "insufficient stock")
	ErrInsufficientBalance = NewValidationError("amount", "insufficient balance")
)

// HTTPStatuser is implemented by errors that know their HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
	Code() string
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is matches validation errors carrying the same field and message
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Field == e.Field && t.Message == e.Message
}

func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ValidationError) Code() string    { return "validation_error" }

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }
func (e *NotFoundError) Code() string    { return "not_found" }

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

func (e *AlreadyExistsError) HTTPStatus() int { return http.StatusConflict }
func (e *AlreadyExistsError) Code() string    { return "already_exists" }

// ConflictError represents a request that is valid but not allowed in the current state
type ConflictError struct {
	Message string
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) HTTPStatus() int { return http.StatusConflict }
func (e *ConflictError) Code() string    { return "conflict" }

// UnauthorizedError represents a missing or invalid session
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string   { return e.Message }
func (e *UnauthorizedError) HTTPStatus() int { return http.StatusUnauthorized }
func (e *UnauthorizedError) Code() string    { return "unauthorized" }

// ForbiddenError represents an authenticated caller without the required rights
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func (e *ForbiddenError) Error() string   { return e.Message }
func (e *ForbiddenError) HTTPStatus() int { return http.StatusForbidden }
func (e *ForbiddenError) Code() string    { return "forbidden" }

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }
func (e *InternalError) Code() string    { return "internal_error" }

// Resolve returns the HTTP status, code and client-safe message for err.
// Errors that do not carry a status are reported as internal errors without
// leaking their text.
func Resolve(err error) (int, string, string) {
	var se HTTPStatuser
	if errors.As(err, &se) {
		if se.HTTPStatus() == http.StatusInternalServerError {
			return se.HTTPStatus(), se.Code(), "An internal error occurred"
		}
		return se.HTTPStatus(), se.Code(), err.Error()
	}
	return http.StatusInternalServerError, "internal_error", "An internal error occurred"
}

// IsNotFound reports whether err is (or wraps) a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
