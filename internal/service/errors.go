package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrRegionRequired indicates an operation needs a garden region and none
	// has been recorded yet. API layer should map this to HTTP 409 Conflict.
	ErrRegionRequired = errors.New("garden region has not been set")

	// ErrMissingDependency is returned by constructors given a nil collaborator.
	ErrMissingDependency = errors.New("missing service dependency")
)

// ServiceError is a custom error type for service operation failures.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// wrap returns err unchanged when it is already a ServiceError and wraps it
// in one otherwise.
func wrap(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return NewServiceError(operation, message, err)
}
