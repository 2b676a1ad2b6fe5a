package match

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The three algorithms must agree: KMP and Boyer-Moore return identical
// offset sets for any text/pattern pair, and a singleton Aho-Corasick
// automaton matches both.
func TestAlgorithmEquivalenceRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := "abcab " // skewed alphabet to force overlaps

	randString := func(maxLen int) string {
		n := rng.Intn(maxLen) + 1
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		return b.String()
	}

	for i := 0; i < 500; i++ {
		text := randString(200)
		pattern := randString(5)

		kmp := KMPSearch(text, pattern)
		bm := BoyerMooreSearch(text, pattern)
		require.Equal(t, kmp, bm, "text=%q pattern=%q", text, pattern)

		ac := NewAhoCorasick([]string{pattern}).Search(text)
		assert.Equal(t, kmp, ac[strings.ToLower(pattern)], "text=%q pattern=%q", text, pattern)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"KMP", AlgorithmKMP, false},
		{"kmp", AlgorithmKMP, false},
		{"BM", AlgorithmBoyerMoore, false},
		{"boyer-moore", AlgorithmBoyerMoore, false},
		{"AC", AlgorithmAhoCorasick, false},
		{"aho-corasick", AlgorithmAhoCorasick, false},
		{" ac ", AlgorithmAhoCorasick, false},
		{"rabin-karp", AlgorithmKMP, true},
		{"", AlgorithmKMP, true},
	}

	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestAlgorithmString(t *testing.T) {
	assert.Equal(t, "KMP", AlgorithmKMP.String())
	assert.Equal(t, "BM", AlgorithmBoyerMoore.String())
	assert.Equal(t, "AC", AlgorithmAhoCorasick.String())
}

func TestSearchOneDispatch(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmKMP, AlgorithmBoyerMoore, AlgorithmAhoCorasick} {
		assert.Equal(t, []int{0, 2, 5, 7}, SearchOne(alg, "ababcabab", "ab"), "algorithm %s", alg)
	}
}
