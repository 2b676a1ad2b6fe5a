// Package fuzzy implements Levenshtein-based similarity scoring, phrase
// matching with tunable leniency heuristics, and the keyword-length
// threshold policy used by the fuzzy fallback phase.
package fuzzy

import "strings"

// Distance computes the classic Levenshtein edit distance between a and b:
// the minimum number of single-rune insertions, deletions, and
// substitutions needed to transform one into the other. It uses a rolling
// row, so memory is O(min(len(a), len(b))).
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	// Keep the shorter string as the row.
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	if len(rb) == 0 {
		return len(ra)
	}

	previous := make([]int, len(rb)+1)
	current := make([]int, len(rb)+1)
	for j := range previous {
		previous[j] = j
	}

	for i, ca := range ra {
		current[0] = i + 1
		for j, cb := range rb {
			insertion := previous[j+1] + 1
			deletion := current[j] + 1
			substitution := previous[j]
			if ca != cb {
				substitution++
			}
			current[j+1] = min3(insertion, deletion, substitution)
		}
		previous, current = current, previous
	}

	return previous[len(rb)]
}

// Similarity returns a normalized similarity in [0, 1]: 1.0 for
// case-insensitively equal strings, otherwise 1 - distance/maxLen.
// Either input being empty yields 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1.0
	}

	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}

	return 1.0 - float64(Distance(a, b))/float64(maxLen)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
