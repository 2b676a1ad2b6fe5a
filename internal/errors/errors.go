package errors

import (
	"fmt"
)

// SearchError is the structured error type for cvsearch.
// It provides context for error handling, logging, and user presentation.
type SearchError struct {
	// Code is the unique error code (e.g., "ERR_401_INVALID_QUERY").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Corpus, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with SearchError.
func (e *SearchError) Is(target error) bool {
	if t, ok := target.(*SearchError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *SearchError) WithDetail(key, value string) *SearchError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new SearchError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *SearchError {
	return &SearchError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a SearchError from an existing error.
// The error's message becomes the SearchError message.
func Wrap(code string, err error) *SearchError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// InvalidQuery creates a query validation error.
func InvalidQuery(message string) *SearchError {
	return New(ErrCodeInvalidQuery, message, nil)
}

// DocumentProcessing creates a per-document processing error.
// The document is skipped; the corpus scan continues.
func DocumentProcessing(message string, cause error) *SearchError {
	return New(ErrCodeDocumentProcessing, message, cause)
}

// WorkerPoolUnavailable creates a worker pool startup error.
// The orchestrator falls back to the sequential path on this error.
func WorkerPoolUnavailable(message string, cause error) *SearchError {
	return New(ErrCodeWorkerPoolUnavailable, message, cause)
}

// WorkerTaskFailure creates a per-chunk worker error.
func WorkerTaskFailure(message string, cause error) *SearchError {
	return New(ErrCodeWorkerTaskFailure, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is a SearchError with the Retryable flag set.
func IsRetryable(err error) bool {
	if se, ok := err.(*SearchError); ok {
		return se.Retryable
	}
	return false
}

// CodeOf returns the error code of a SearchError, or empty string for
// any other error type.
func CodeOf(err error) string {
	if se, ok := err.(*SearchError); ok {
		return se.Code
	}
	return ""
}
