package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", 16)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorePutAndDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Put(ctx,
		Applicant{ID: 2, Name: "Bob", Role: "Data   Engineer", Skills: "python\tsql"},
		Applicant{ID: 1, Name: "Alice", Role: "Go Developer", Skills: "go kafka", RawText: "ten years"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Ordered by ascending ID, text whitespace-normalized.
	assert.Equal(t, int64(1), docs[0].ID)
	assert.Equal(t, "Alice Go Developer go kafka ten years", docs[0].Text)
	assert.Equal(t, int64(2), docs[1].ID)
	assert.Equal(t, "Bob Data Engineer python sql", docs[1].Text)
}

func TestStorePutReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Applicant{ID: 1, Name: "Alice", Role: "Junior"}))
	require.NoError(t, s.Put(ctx, Applicant{ID: 1, Name: "Alice", Role: "Senior"}))

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Text, "Senior")
	assert.NotContains(t, docs[0].Text, "Junior")
}

func TestStoreSkipsInvalidUTF8(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx,
		Applicant{ID: 1, Name: "Valid", Skills: "go"},
		Applicant{ID: 2, Name: string([]byte{0xff, 0xfe}), Skills: "broken"},
	))

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, int64(1), docs[0].ID)
	assert.Equal(t, int64(1), s.Skipped())
}

func TestStoreProjectionCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Applicant{ID: 1, Name: "Alice", Skills: "go"}))

	first, err := s.Documents(ctx)
	require.NoError(t, err)
	second, err := s.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Rewriting the row bumps updated_at, so the stale cache entry is
	// bypassed.
	require.NoError(t, s.Put(ctx, Applicant{ID: 1, Name: "Alice", Skills: "rust"}))
	third, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Contains(t, third[0].Text, "rust")
}

func TestStoreSeed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))
	assert.Equal(t, len(SampleApplicants()), s.Len())

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	assert.Contains(t, docs[1].Text, "machine learning")
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cvsearch.db")
	ctx := context.Background()

	s, err := Open(path, 16)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, Applicant{ID: 7, Name: "Grace", Skills: "fortran"}))
	require.NoError(t, s.Close())

	s2, err := Open(path, 16)
	require.NoError(t, err)
	defer s2.Close()

	docs, err := s2.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, int64(7), docs[0].ID)
}

func TestStoreClosed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close()) // idempotent

	_, err := s.Documents(context.Background())
	assert.Error(t, err)
	assert.Error(t, s.Put(context.Background(), Applicant{ID: 1}))
	assert.Zero(t, s.Len())
}
