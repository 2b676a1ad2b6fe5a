// Package errors provides structured error handling for cvsearch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Corpus/storage errors
//   - 4XX: Query validation errors
//   - 5XX: Internal and worker errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryCorpus indicates corpus and storage errors.
	CategoryCorpus Category = "CORPUS"
	// CategoryValidation indicates query validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates internal and worker errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityError indicates the operation failed but the process can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Corpus errors (200-299)
	ErrCodeCorpusOpen    = "ERR_201_CORPUS_OPEN"
	ErrCodeCorpusCorrupt = "ERR_202_CORPUS_CORRUPT"
	ErrCodeCorpusLoad    = "ERR_203_CORPUS_LOAD"

	// Validation errors (400-499)
	ErrCodeInvalidQuery       = "ERR_401_INVALID_QUERY"
	ErrCodeDocumentProcessing = "ERR_402_DOCUMENT_PROCESSING"
	ErrCodeInvalidAlgorithm   = "ERR_403_INVALID_ALGORITHM"
	ErrCodeInvalidLimit       = "ERR_404_INVALID_LIMIT"

	// Internal errors (500-599)
	ErrCodeWorkerPoolUnavailable = "ERR_501_WORKER_POOL_UNAVAILABLE"
	ErrCodeWorkerTaskFailure     = "ERR_502_WORKER_TASK_FAILURE"
	ErrCodeSearchFailed          = "ERR_503_SEARCH_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryCorpus
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Degradation codes are warnings: the search continues without the
// failed component.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeDocumentProcessing, ErrCodeWorkerPoolUnavailable, ErrCodeWorkerTaskFailure:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// isRetryableCode reports whether an operation failing with this code
// may be retried.
func isRetryableCode(code string) bool {
	return code == ErrCodeWorkerTaskFailure
}
