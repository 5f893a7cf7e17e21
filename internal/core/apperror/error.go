// Package apperror provides structured error handling for the stock ledger service.
// Every failure that reaches a caller of the core is an *AppError so that
// transports can map it to a response without inspecting error strings.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"millstock/internal/core/types"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal            = "INTERNAL_ERROR"
	CodeDatabase            = "DATABASE_ERROR"
	CodeInternalConsistency = "INTERNAL_CONSISTENCY"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeInsufficientStock = "INSUFFICIENT_STOCK"

	// Authorization errors (401)
	CodeUnauthorized = "UNAUTHORIZED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict               = "CONFLICT"
	CodeDuplicate              = "DUPLICATE_ENTRY"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// AppError is the standard error type for the service.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400).
// Reported before any stock mutation; the caller may fix the input and resubmit.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInsufficientStock reports an outward movement that exceeds the source pool balance.
func NewInsufficientStock(itemID string, available, requested types.Quantity) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    fmt.Sprintf("Not enough stock. Available: %s, Required: %s", available, requested),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"itemId":    itemID,
			"available": available,
			"requested": requested,
		},
	}
}

// NewInternalConsistency signals a ledger state the validator should have made impossible.
func NewInternalConsistency(message string) *AppError {
	return &AppError{
		Code:       CodeInternalConsistency,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewStorage wraps a failure of the underlying unit of work.
// The message stays generic; nothing was committed, so the request is safe to retry.
func NewStorage(err error) *AppError {
	return &AppError{
		Code:       CodeDatabase,
		Message:    "Storage failure, please retry",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsInsufficientStock checks if error is CodeInsufficientStock
func IsInsufficientStock(err error) bool {
	return HasCode(err, CodeInsufficientStock)
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	return HasCode(err, CodeValidation)
}
