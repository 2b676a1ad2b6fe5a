package search

import (
	"time"

	"github.com/talenthive/cvsearch/internal/match"
)

// Request describes one search.
type Request struct {
	// Keywords are the terms to look for. They are trimmed, lower-cased,
	// and de-duplicated before matching; an empty list yields empty
	// results, not an error.
	Keywords []string

	// Algorithm selects the exact-match algorithm.
	Algorithm match.Algorithm

	// MaxResults limits the ranked output. Zero means the engine default;
	// values are clamped to the configured cap.
	MaxResults int

	// Parallel requests the worker-pool path. The engine may still run
	// sequentially when the corpus is small or the pool is unavailable.
	Parallel bool
}

// FuzzyMatch records the best approximate hit for a keyword in one
// document.
type FuzzyMatch struct {
	// Matched is the document word or phrase that matched.
	Matched string `json:"matched"`

	// Similarity is the normalized similarity in [0, 1].
	Similarity float64 `json:"similarity"`
}

// DocumentResult is one document's standing for a query.
type DocumentResult struct {
	// DocumentID identifies the document in the corpus.
	DocumentID int64 `json:"document_id"`

	// Exact maps each keyword to its occurrence count. Keywords with no
	// occurrences are absent.
	Exact map[string]int `json:"exact,omitempty"`

	// Fuzzy maps each keyword to its best accepted approximate match.
	// Populated only for documents with no exact hits.
	Fuzzy map[string]FuzzyMatch `json:"fuzzy,omitempty"`

	// Score is the ranking score: the sum of exact occurrence counts plus
	// the sum of accepted fuzzy similarities.
	Score float64 `json:"score"`
}

// Stats describes how a search executed.
type Stats struct {
	Algorithm         string        `json:"algorithm"`
	Keywords          []string      `json:"keywords"`
	DocumentsSearched int           `json:"documents_searched"`
	ExactPhase        time.Duration `json:"exact_phase"`
	FuzzyPhase        time.Duration `json:"fuzzy_phase"`
	Total             time.Duration `json:"total"`

	// ParallelUsed reports whether the worker pool actually ran; it is
	// false when the engine fell back to sequential search.
	ParallelUsed bool `json:"parallel_used"`

	// PoolFallback reports that parallel search was requested but the
	// pool could not be used.
	PoolFallback bool `json:"pool_fallback,omitempty"`
	Workers      int  `json:"workers,omitempty"`
	Chunks       int  `json:"chunks,omitempty"`

	// DroppedChunks counts chunks that failed after their retry and were
	// excluded from the results.
	DroppedChunks int `json:"dropped_chunks,omitempty"`

	// EarlyStopped reports that chunk dispatch halted once enough exact
	// matches had accumulated.
	EarlyStopped bool `json:"early_stopped,omitempty"`
}

// Results is the ranked output of a search.
type Results struct {
	Documents []DocumentResult `json:"documents"`
	Stats     Stats            `json:"stats"`
}
