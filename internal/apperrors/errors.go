// Package apperrors defines the structured errors surfaced to callers of a
// billing run.
package apperrors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoOrders     = errors.New("no orders")
	ErrInternal     = errors.New("internal error")
)

// Error codes carried by AppError.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeNoOrders     = "NO_ORDERS"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError represents a structured application error.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a not-found error for the given resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Err:     ErrNotFound,
	}
}

// InvalidInput creates an invalid-input error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NoOrders reports that a billing slot has nothing to bill. It is a
// user-facing, non-fatal condition.
func NoOrders(restaurantID, mealType, date string) *AppError {
	return &AppError{
		Code:    CodeNoOrders,
		Message: fmt.Sprintf("no %s orders for restaurant %s on %s", mealType, restaurantID, date),
		Err:     ErrNoOrders,
	}
}

// Internal wraps an unexpected error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "an internal error occurred",
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Code returns the AppError code found in err's chain, or CodeInternal.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrNoOrders):
		return CodeNoOrders
	default:
		return CodeInternal
	}
}

// Guard runs fn and converts a panic into an Internal error.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Internal(fmt.Errorf("panic: %v", r))
		}
	}()
	return fn()
}
