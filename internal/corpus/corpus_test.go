package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCorpus(t *testing.T) {
	c := NewMemoryCorpus([]Document{
		{ID: 3, Text: "three"},
		{ID: 1, Text: "one"},
		{ID: 2, Text: "two"},
	})

	assert.Equal(t, 3, c.Len())

	docs, err := c.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, int64(1), docs[0].ID)
	assert.Equal(t, int64(2), docs[1].ID)
	assert.Equal(t, int64(3), docs[2].ID)
}

func TestMemoryCorpusAddKeepsOrder(t *testing.T) {
	c := NewMemoryCorpus(nil)
	c.Add(Document{ID: 5, Text: "five"})
	c.Add(Document{ID: 2, Text: "two"})

	docs, err := c.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, int64(2), docs[0].ID)
	assert.Equal(t, int64(5), docs[1].ID)
}

func TestMemoryCorpusCopies(t *testing.T) {
	c := NewMemoryCorpus([]Document{{ID: 1, Text: "one"}})

	docs, err := c.Documents(context.Background())
	require.NoError(t, err)
	docs[0].Text = "mutated"

	again, err := c.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one", again[0].Text)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  hello   world  ", "hello world"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"already normal", "already normal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in), "input %q", tt.in)
	}
}
