package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline failures. Errors from the embedding provider
// or the vector store propagate to the caller uncaught; the pipeline never
// retries on its own.
var (
	// ErrMissingEndpoint signals a required service endpoint was not configured.
	ErrMissingEndpoint = errors.New("missing service endpoint")
	// ErrEmptyInput signals the embedding provider received no texts.
	ErrEmptyInput = errors.New("empty embedding input")
	// ErrEmbedding signals an embedding provider failure.
	ErrEmbedding = errors.New("embedding failed")
	// ErrCollectionNotFound signals a search against a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrIndexWrite signals a batch insert failure. The whole ingestion run
	// must be retried; there are no partial commit semantics.
	ErrIndexWrite = errors.New("index write failed")
	// ErrInference signals an extractive QA inference failure. An empty or
	// too-short extracted span is NOT an inference error; it selects the
	// canned fallback answer instead.
	ErrInference = errors.New("inference failed")
)

// ValidationError wraps a sentinel with record field context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}

// Record validation sentinels.
var (
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrEmptyAnswer       = errors.New("answer is empty")
	ErrFieldTooLong      = errors.New("field exceeds length limit")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
