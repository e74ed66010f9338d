package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrBackend is returned when the backing store fails
	ErrBackend = errors.New("backend error")

	// ErrTimeout is returned when a store operation times out
	ErrTimeout = errors.New("operation timeout")
)

// RepositoryError represents a store-specific error with additional context
type RepositoryError struct {
	Op    string // Operation that failed
	Table string // Table the operation targeted
	Key   string // Item key (if applicable)
	Err   error  // Underlying error
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s failed for key %s: %v", e.Table, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Table, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *RepositoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRepositoryError creates a new repository error wrapping ErrBackend
func NewRepositoryError(op, table, key string, err error) *RepositoryError {
	return &RepositoryError{
		Op:    op,
		Table: table,
		Key:   key,
		Err:   fmt.Errorf("%w: %v", ErrBackend, err),
	}
}

// IsBackend checks if an error is a backend store failure
func IsBackend(err error) bool {
	return errors.Is(err, ErrBackend)
}
