// Package errors classifies and retries failed store operations.
//
// Records and proxies never invent errors of their own: validation failures
// come from a record's validator and persistence failures from its sync
// hook. This package gives those failures a shape. ValidationError and
// StoreError type them, Classify decides whether repeating the operation can
// help, and Retry repeats it with exponential backoff.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Class says whether a failed operation is worth repeating.
type Class uint8

const (
	// ClassFinal failures stay failed: missing documents, rejected
	// attributes, closed stores.
	ClassFinal Class = iota

	// ClassContended failures hit a locked or busy store.
	ClassContended

	// ClassTimeout failures ran out of time on a slow backend.
	ClassTimeout
)

func (c Class) String() string {
	switch c {
	case ClassFinal:
		return "final"
	case ClassContended:
		return "contended"
	case ClassTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Retryable reports whether another attempt may succeed.
func (c Class) Retryable() bool {
	return c == ClassContended || c == ClassTimeout
}

// OpError is the outcome of a failed operation once retrying stops.
type OpError struct {
	// Op names the operation, if known.
	Op string
	// Class is the classification of Err.
	Class Class
	// Attempts is how many times the operation ran.
	Attempts int
	// Err is the last failure.
	Err error
}

func (e *OpError) Error() string {
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Attempts > 1 {
		msg = fmt.Sprintf("%s (%d attempts)", msg, e.Attempts)
	}
	return msg
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Final marks err as not worth retrying.
func Final(err error, op string) *OpError {
	return &OpError{Op: op, Class: ClassFinal, Err: err}
}

// Contended marks err as lock contention.
func Contended(err error, op string) *OpError {
	return &OpError{Op: op, Class: ClassContended, Err: err}
}

// Classify returns the Class of err. Errors it does not recognise are final.
func Classify(err error) Class {
	if err == nil {
		return ClassFinal
	}

	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Class
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Busy {
		return ClassContended
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	return ClassFinal
}

// IsRetryable reports whether err should be retried.
func IsRetryable(err error) bool {
	return Classify(err).Retryable()
}
