package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantCategory Category
		wantSeverity Severity
		wantRetry    bool
	}{
		{"invalid query", ErrCodeInvalidQuery, CategoryValidation, SeverityError, false},
		{"document processing", ErrCodeDocumentProcessing, CategoryValidation, SeverityWarning, false},
		{"pool unavailable", ErrCodeWorkerPoolUnavailable, CategoryInternal, SeverityWarning, false},
		{"task failure", ErrCodeWorkerTaskFailure, CategoryInternal, SeverityWarning, true},
		{"config invalid", ErrCodeConfigInvalid, CategoryConfig, SeverityError, false},
		{"corpus open", ErrCodeCorpusOpen, CategoryCorpus, SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
			assert.Equal(t, tt.wantSeverity, err.Severity)
			assert.Equal(t, tt.wantRetry, err.Retryable)
			assert.Contains(t, err.Error(), tt.code)
		})
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(ErrCodeCorpusLoad, cause)
	require.NotNil(t, err)
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, stderrors.Is(err, cause))

	assert.Nil(t, Wrap(ErrCodeCorpusLoad, nil))
}

func TestIsByCode(t *testing.T) {
	err := WorkerPoolUnavailable("pool probe timed out", nil)
	target := New(ErrCodeWorkerPoolUnavailable, "", nil)
	assert.True(t, stderrors.Is(err, target))

	other := New(ErrCodeWorkerTaskFailure, "", nil)
	assert.False(t, stderrors.Is(err, other))
}

func TestWithDetail(t *testing.T) {
	err := DocumentProcessing("bad encoding", nil).
		WithDetail("document_id", "42")
	assert.Equal(t, "42", err.Details["document_id"])
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(WorkerTaskFailure("chunk 3 failed", nil)))
	assert.False(t, IsRetryable(InvalidQuery("empty keywords")))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidQuery, CodeOf(InvalidQuery("x")))
	assert.Equal(t, "", CodeOf(fmt.Errorf("plain")))
}
