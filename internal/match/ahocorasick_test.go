package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAhoCorasickMultiPattern(t *testing.T) {
	ac := NewAhoCorasick([]string{"he", "she", "his", "hers"})
	matches := ac.Search("ushers")

	assert.Equal(t, []int{1}, matches["she"])
	assert.Equal(t, []int{2}, matches["he"])
	assert.Equal(t, []int{2}, matches["hers"])
	assert.NotContains(t, matches, "his")
}

func TestAhoCorasickOverlapping(t *testing.T) {
	ac := NewAhoCorasick([]string{"ab", "abab"})
	matches := ac.Search("ababab")

	assert.Equal(t, []int{0, 2, 4}, matches["ab"])
	assert.Equal(t, []int{0, 2}, matches["abab"])
}

func TestAhoCorasickCaseInsensitive(t *testing.T) {
	ac := NewAhoCorasick([]string{"Python", "SQL"})
	matches := ac.Search("Knows PYTHON and sql, mostly python.")

	assert.Len(t, matches["python"], 2)
	assert.Len(t, matches["sql"], 1)
}

func TestAhoCorasickDedupAndEmpty(t *testing.T) {
	ac := NewAhoCorasick([]string{"go", "GO", "", "go"})
	require.Equal(t, []string{"go"}, ac.Patterns())

	matches := ac.Search("go go")
	assert.Equal(t, []int{0, 3}, matches["go"])
}

func TestAhoCorasickEmptyInputs(t *testing.T) {
	ac := NewAhoCorasick([]string{"go"})
	assert.Empty(t, ac.Search(""))

	empty := NewAhoCorasick(nil)
	assert.Empty(t, empty.Search("anything"))
}

func TestAhoCorasickPatternInsideAnother(t *testing.T) {
	// Failure-link output propagation: "a" must be reported inside "abc".
	ac := NewAhoCorasick([]string{"a", "abc"})
	matches := ac.Search("xabc")

	assert.Equal(t, []int{1}, matches["a"])
	assert.Equal(t, []int{1}, matches["abc"])
}
