package fuzzy

import "strings"

// Heuristics holds the tunable constants of the phrase matcher. They are
// policy, not contract: callers load them from configuration so the
// matching core stays free of magic numbers.
type Heuristics struct {
	// LeniencyMinLength is the minimum query length (runes) for the
	// single-word leniency bonus. Longer words tolerate proportionally
	// more edits before their meaning changes.
	LeniencyMinLength int

	// LeniencyMinSimilarity gates the bonus: the raw similarity must
	// already exceed it.
	LeniencyMinSimilarity float64

	// LeniencyBonus is added to qualifying similarities, capped at
	// LeniencyCap.
	LeniencyBonus float64
	LeniencyCap   float64

	// LongPhraseLength is the character length beyond which near-identical
	// phrases are scored by edit-distance floors instead of the
	// proportional formula.
	LongPhraseLength int

	// LongPhraseFloors[d-1] is the minimum similarity for a long phrase at
	// edit distance d.
	LongPhraseFloors [3]float64

	// WindowSpread widens the sliding window: candidate phrases span
	// queryTokens±WindowSpread tokens.
	WindowSpread int

	// EarlyExitSimilarity short-circuits the window scan once a candidate
	// exceeds it.
	EarlyExitSimilarity float64
}

// DefaultHeuristics returns the tuning used in production.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		LeniencyMinLength:     8,
		LeniencyMinSimilarity: 0.75,
		LeniencyBonus:         0.1,
		LeniencyCap:           0.85,
		LongPhraseLength:      50,
		LongPhraseFloors:      [3]float64{0.95, 0.90, 0.85},
		WindowSpread:          2,
		EarlyExitSimilarity:   0.95,
	}
}

// Matcher scores keywords against document text. A Matcher is immutable
// and safe for concurrent use.
type Matcher struct {
	h Heuristics
}

// NewMatcher creates a matcher with the given heuristics.
func NewMatcher(h Heuristics) *Matcher {
	return &Matcher{h: h}
}

// BestMatch compares a single-token query against each candidate word and
// returns the best similarity with the word that produced it. The leniency
// bonus applies to long queries whose best candidate is already close.
func (m *Matcher) BestMatch(query string, words []string) (float64, string) {
	if query == "" || len(words) == 0 {
		return 0, ""
	}

	query = strings.ToLower(strings.TrimSpace(query))

	var best float64
	var bestWord string
	for _, w := range words {
		if s := Similarity(query, w); s > best {
			best = s
			bestWord = w
		}
	}

	if len([]rune(query)) > m.h.LeniencyMinLength && best > m.h.LeniencyMinSimilarity && best < 1.0 {
		boosted := best + m.h.LeniencyBonus
		if boosted > m.h.LeniencyCap {
			boosted = m.h.LeniencyCap
		}
		if boosted > best {
			best = boosted
		}
	}

	return best, bestWord
}

// BestPhraseMatch finds the closest match for query inside text and
// returns its similarity with the matched substring. Single-token queries
// are compared word by word; multi-token queries slide windows of
// queryTokens±WindowSpread tokens over the text.
func (m *Matcher) BestPhraseMatch(query, text string) (float64, string) {
	if query == "" || text == "" {
		return 0, ""
	}

	query = strings.ToLower(strings.TrimSpace(query))
	text = strings.ToLower(strings.TrimSpace(text))

	if query == text {
		return 1.0, text
	}

	textWords := strings.Fields(text)
	queryWords := strings.Fields(query)

	if len(queryWords) <= 1 {
		return m.BestMatch(query, textWords)
	}

	return m.slidingWindowMatch(query, queryWords, textWords)
}

// slidingWindowMatch scores every candidate phrase of a valid window size
// and keeps the best. Candidates above EarlyExitSimilarity return
// immediately; that is an optimization, not a correctness requirement.
func (m *Matcher) slidingWindowMatch(query string, queryWords, textWords []string) (float64, string) {
	var best float64
	var bestPhrase string

	lo := len(queryWords) - m.h.WindowSpread
	hi := len(queryWords) + m.h.WindowSpread

	for size := lo; size <= hi; size++ {
		if size < 1 || size > len(textWords) {
			continue
		}
		for start := 0; start+size <= len(textWords); start++ {
			phrase := strings.Join(textWords[start:start+size], " ")
			s := m.phraseSimilarity(query, phrase)

			if s > best {
				best = s
				bestPhrase = phrase
			}
			if s > m.h.EarlyExitSimilarity {
				return s, phrase
			}
		}
	}

	return best, bestPhrase
}

// phraseSimilarity scores two phrases. Long phrases at tiny edit distances
// get floored scores: the proportional formula would under-reward a
// 60-character phrase that differs by one character.
func (m *Matcher) phraseSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	base := Similarity(a, b)

	if len(a) > m.h.LongPhraseLength || len(b) > m.h.LongPhraseLength {
		switch d := Distance(a, b); {
		case d <= 1:
			return maxFloat(base, m.h.LongPhraseFloors[0])
		case d <= 2:
			return maxFloat(base, m.h.LongPhraseFloors[1])
		case d <= 3:
			return maxFloat(base, m.h.LongPhraseFloors[2])
		}
	}

	return base
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
