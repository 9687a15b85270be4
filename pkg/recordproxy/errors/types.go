package errors

import "fmt"

// ValidationError reports that a record rejected a set of attributes.
// Err carries whatever the record's validator returned.
type ValidationError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("validation error: %v", e.Err)
}

// Unwrap returns the validator's error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failure from a persistence backend.
type StoreError struct {
	// Op is the store operation ("put", "get", "delete", "list").
	Op string
	// Key is the resource key involved, if any.
	Key string
	// Busy marks lock contention; such errors are retried.
	Busy bool
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}
