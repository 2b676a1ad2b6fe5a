package match

import "strings"

// AhoCorasick is a multi-pattern matcher. The trie and its failure links
// live in a node arena addressed by integer indices, so traversal needs no
// self-referential pointers. An automaton is built once per keyword set and
// is read-only afterwards, safe for concurrent Search calls.
type AhoCorasick struct {
	nodes    []acNode
	patterns []string
}

type acNode struct {
	children map[byte]int32
	fail     int32
	output   []int32 // indices into patterns
}

const acRoot int32 = 0

// NewAhoCorasick builds an automaton over the given patterns. Patterns are
// lower-cased and deduplicated; empty patterns are skipped.
func NewAhoCorasick(patterns []string) *AhoCorasick {
	a := &AhoCorasick{
		nodes: []acNode{{children: make(map[byte]int32)}},
	}

	seen := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		a.insert(p)
	}

	a.buildFailureLinks()
	return a
}

// Patterns returns the deduplicated, lower-cased pattern set.
func (a *AhoCorasick) Patterns() []string {
	return a.patterns
}

func (a *AhoCorasick) insert(pattern string) {
	node := acRoot
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		next, ok := a.nodes[node].children[c]
		if !ok {
			next = int32(len(a.nodes))
			a.nodes = append(a.nodes, acNode{children: make(map[byte]int32)})
			a.nodes[node].children[c] = next
		}
		node = next
	}

	id := int32(len(a.patterns))
	a.patterns = append(a.patterns, pattern)
	a.nodes[node].output = append(a.nodes[node].output, id)
}

// buildFailureLinks runs the classic breadth-first pass: the root's
// children fail to the root; deeper nodes follow the parent's failure chain
// until a matching transition exists. Output sets are unioned through the
// failure link, which is valid because BFS order processes the failure
// target before the node itself.
func (a *AhoCorasick) buildFailureLinks() {
	queue := make([]int32, 0, len(a.nodes))

	for _, child := range a.nodes[acRoot].children {
		a.nodes[child].fail = acRoot
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for c, child := range a.nodes[current].children {
			queue = append(queue, child)

			fail := a.nodes[current].fail
			for fail != acRoot {
				if _, ok := a.nodes[fail].children[c]; ok {
					break
				}
				fail = a.nodes[fail].fail
			}

			if next, ok := a.nodes[fail].children[c]; ok && next != child {
				a.nodes[child].fail = next
			} else {
				a.nodes[child].fail = acRoot
			}

			a.nodes[child].output = append(a.nodes[child].output, a.nodes[a.nodes[child].fail].output...)
		}
	}
}

// Search drives one pointer through the lower-cased text, following
// failure links on mismatch, and reports every pattern ending at each
// position. The result maps each matched pattern (lower-cased) to its
// ascending occurrence offsets. Patterns with no occurrences are absent.
func (a *AhoCorasick) Search(text string) map[string][]int {
	matches := make(map[string][]int)
	if len(text) == 0 || len(a.patterns) == 0 {
		return matches
	}

	t := strings.ToLower(text)
	node := acRoot

	for i := 0; i < len(t); i++ {
		c := t[i]

		for node != acRoot {
			if _, ok := a.nodes[node].children[c]; ok {
				break
			}
			node = a.nodes[node].fail
		}

		if next, ok := a.nodes[node].children[c]; ok {
			node = next
		}

		for _, id := range a.nodes[node].output {
			p := a.patterns[id]
			matches[p] = append(matches[p], i-len(p)+1)
		}
	}

	return matches
}
