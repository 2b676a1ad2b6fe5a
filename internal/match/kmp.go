package match

import "strings"

// KMPSearch finds all occurrences of pattern in text using the
// Knuth-Morris-Pratt algorithm. The failure table lets the scan resume
// after a mismatch without re-comparing consumed text, giving O(n+m) time.
func KMPSearch(text, pattern string) []int {
	if len(text) == 0 || len(pattern) == 0 {
		return nil
	}

	t := strings.ToLower(text)
	p := strings.ToLower(pattern)
	if len(p) > len(t) {
		return nil
	}

	failure := buildFailureTable(p)

	var matches []int
	j := 0
	for i := 0; i < len(t); {
		if t[i] == p[j] {
			i++
			j++
			if j == len(p) {
				matches = append(matches, i-j)
				j = failure[j-1]
			}
		} else if j != 0 {
			j = failure[j-1]
		} else {
			i++
		}
	}

	return matches
}

// buildFailureTable computes the longest-proper-prefix-suffix table:
// failure[i] is the length of the longest proper prefix of p[:i+1] that is
// also a suffix of it.
func buildFailureTable(p string) []int {
	failure := make([]int, len(p))
	j := 0
	for i := 1; i < len(p); i++ {
		for j > 0 && p[i] != p[j] {
			j = failure[j-1]
		}
		if p[i] == p[j] {
			j++
		}
		failure[i] = j
	}
	return failure
}
