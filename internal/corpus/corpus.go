// Package corpus provides access to the searchable document collection.
//
// A document is a flattened CV: the store concatenates the structured
// fields of an applicant row into one lowercase-searchable text blob. The
// search engine never sees the row structure, only Document values.
package corpus

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Document is one searchable unit. Text is whitespace-normalized but not
// lowercased; matchers handle case-insensitivity themselves.
type Document struct {
	ID   int64
	Text string
}

// Corpus is the read surface the search engine depends on.
type Corpus interface {
	// Documents returns every document, ordered by ascending ID.
	Documents(ctx context.Context) ([]Document, error)

	// Len reports the document count without materializing documents.
	Len() int
}

// MemoryCorpus holds documents in memory. It is the corpus used by tests
// and by ad-hoc searches over documents that never touch the store.
type MemoryCorpus struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMemoryCorpus copies docs and orders them by ID.
func NewMemoryCorpus(docs []Document) *MemoryCorpus {
	out := make([]Document, len(docs))
	copy(out, docs)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return &MemoryCorpus{docs: out}
}

// Documents implements Corpus.
func (c *MemoryCorpus) Documents(_ context.Context) ([]Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out, nil
}

// Len implements Corpus.
func (c *MemoryCorpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Add appends a document, keeping ID order.
func (c *MemoryCorpus) Add(doc Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs = append(c.docs, doc)
	sort.Slice(c.docs, func(i, j int) bool { return c.docs[i].ID < c.docs[j].ID })
}

// NormalizeText collapses runs of whitespace to single spaces and trims
// the ends. Matching operates on byte offsets, so both the stored
// projection and the query side must normalize identically.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
