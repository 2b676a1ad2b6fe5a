package match

import "strings"

// BoyerMooreSearch finds all occurrences of pattern in text using the
// Boyer-Moore algorithm with the bad-character rule. On mismatch, the
// pattern shifts by max(1, j - last[c]) where last is the rightmost
// position of each pattern byte; on a full match it shifts by one so
// overlapping occurrences are also reported.
func BoyerMooreSearch(text, pattern string) []int {
	if len(text) == 0 || len(pattern) == 0 {
		return nil
	}

	t := strings.ToLower(text)
	p := strings.ToLower(pattern)
	if len(p) > len(t) {
		return nil
	}

	last := buildLastOccurrence(p)

	var matches []int
	shift := 0
	for shift <= len(t)-len(p) {
		j := len(p) - 1
		for j >= 0 && p[j] == t[shift+j] {
			j--
		}

		if j < 0 {
			matches = append(matches, shift)
			shift++
			continue
		}

		move := j - last[t[shift+j]]
		if move < 1 {
			move = 1
		}
		shift += move
	}

	return matches
}

// buildLastOccurrence records the rightmost index of each byte in the
// pattern. Bytes absent from the pattern map to -1.
func buildLastOccurrence(p string) [256]int {
	var last [256]int
	for i := range last {
		last[i] = -1
	}
	for i := 0; i < len(p); i++ {
		last[p[i]] = i
	}
	return last
}
