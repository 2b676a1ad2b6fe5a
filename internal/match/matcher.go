// Package match implements the exact pattern-matching algorithms used by
// the search engine: Knuth-Morris-Pratt, Boyer-Moore (bad-character rule),
// and Aho-Corasick multi-pattern matching.
//
// All matchers are case-insensitive: text and patterns are lower-cased
// before comparison. Offsets are byte offsets into the lower-cased text,
// reported in ascending order, overlapping occurrences included. Empty
// pattern or empty text yields an empty result, never an error.
package match

import (
	"fmt"
	"strings"
)

// Algorithm selects the exact-match algorithm for a search.
type Algorithm int

const (
	// AlgorithmKMP is Knuth-Morris-Pratt single-pattern search.
	AlgorithmKMP Algorithm = iota
	// AlgorithmBoyerMoore is Boyer-Moore single-pattern search using the
	// bad-character rule only.
	AlgorithmBoyerMoore
	// AlgorithmAhoCorasick is Aho-Corasick multi-pattern search.
	AlgorithmAhoCorasick
)

// String returns the short wire name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmKMP:
		return "KMP"
	case AlgorithmBoyerMoore:
		return "BM"
	case AlgorithmAhoCorasick:
		return "AC"
	default:
		return "unknown"
	}
}

// ParseAlgorithm parses an algorithm name. Short codes and full names are
// accepted, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "KMP", "KNUTH-MORRIS-PRATT":
		return AlgorithmKMP, nil
	case "BM", "BOYER-MOORE", "BOYERMOORE":
		return AlgorithmBoyerMoore, nil
	case "AC", "AHO-CORASICK", "AHOCORASICK":
		return AlgorithmAhoCorasick, nil
	default:
		return AlgorithmKMP, fmt.Errorf("unknown algorithm %q (want KMP, BM, or AC)", s)
	}
}

// SearchOne runs the selected single-pattern algorithm. AlgorithmAhoCorasick
// is accepted for convenience and delegates to a singleton automaton.
func SearchOne(alg Algorithm, text, pattern string) []int {
	switch alg {
	case AlgorithmBoyerMoore:
		return BoyerMooreSearch(text, pattern)
	case AlgorithmAhoCorasick:
		matches := NewAhoCorasick([]string{pattern}).Search(text)
		return matches[strings.ToLower(pattern)]
	default:
		return KMPSearch(text, pattern)
	}
}
