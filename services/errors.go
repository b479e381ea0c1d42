package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the order and session services.
// Match with errors.Is; the concrete value is an *OrderError.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrPersistence        = errors.New("persistence failure")
)

// OrderError carries an error kind plus the code and message shown to clients
type OrderError struct {
	Kind    error
	Code    string
	Message string
	Err     error // underlying cause, never shown to clients
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches the error kind
func (e *OrderError) Is(target error) bool {
	return target == e.Kind
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func validationError(message string) error {
	return &OrderError{Kind: ErrValidation, Code: "VALIDATION_ERROR", Message: message}
}

func notFoundError() error {
	return &OrderError{Kind: ErrNotFound, Code: "ORDER_NOT_FOUND", Message: "Order not found"}
}

func forbiddenError(message string) error {
	return &OrderError{Kind: ErrForbidden, Code: "FORBIDDEN", Message: message}
}

func unauthorizedError(message string) error {
	return &OrderError{Kind: ErrUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

func persistenceError(message string, err error) error {
	return &OrderError{Kind: ErrPersistence, Code: "PERSISTENCE_ERROR", Message: message, Err: err}
}
