package presburger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/presburger/internal/automaton"
)

// ToDot renders lab as a Graphviz DOT digraph. displayOrder, if non-nil,
// permutes which bit position each variable's value occupies in an edge's
// label before rendering; it must be a permutation of lab.Order. Rendering
// never fails: on any difficulty producing a compact label it falls back to
// the raw integer symbol.
func ToDot(lab Labeled, displayOrder VarOrder) string {
	order := lab.Order
	if displayOrder != nil {
		order = displayOrder
	}
	mapping := permutationMapping(lab.Order, order)
	// A displayOrder that is not a permutation of lab.Order gives no bit
	// layout, so edges are labeled with their raw integer symbols instead.
	raw := len(mapping) != lab.Width
	for _, oldPos := range mapping {
		if oldPos < 0 {
			raw = true
		}
	}

	type edgeKey struct {
		from, to automaton.State
	}
	labels := map[edgeKey][]string{}
	var edgeOrder []edgeKey

	for _, tr := range lab.AllTransitions() {
		key := edgeKey{from: tr.From, to: tr.To}
		if _, ok := labels[key]; !ok {
			edgeOrder = append(edgeOrder, key)
		}
		if raw {
			labels[key] = append(labels[key], fmt.Sprintf("%d", tr.Symbol))
			continue
		}
		bits := bitsOf(tr.Symbol, lab.Width)
		reordered := make([]byte, len(bits))
		for newPos, oldPos := range mapping {
			if bits[oldPos] == 1 {
				reordered[newPos] = '1'
			} else {
				reordered[newPos] = '0'
			}
		}
		labels[key] = append(labels[key], string(reordered))
	}

	var b strings.Builder
	b.WriteString("digraph automaton {\n")
	b.WriteString(dotLayoutHint(lab))

	b.WriteString("\tnode [shape=none, label=\"\"]; start;\n")
	for i, s := range lab.Initial() {
		b.WriteString(fmt.Sprintf("\tstart -> %d; // initial %d\n", s, i))
	}

	for _, s := range lab.States() {
		shape := "circle"
		if lab.IsFinal(s) {
			shape = "doublecircle"
		}
		b.WriteString(fmt.Sprintf("\t%d [shape=%s];\n", s, shape))
	}

	for _, key := range edgeOrder {
		compressed := labels[key]
		if !raw {
			compressed = compressBitPatterns(labels[key])
		}
		b.WriteString(fmt.Sprintf("\t%d -> %d [label=%q];\n", key.from, key.to, strings.Join(compressed, ",")))
	}

	b.WriteString("}\n")
	return b.String()
}

// permutationMapping returns, for each index in to, the index that variable
// occupies in from — i.e. mapping[newPos] = oldPos.
func permutationMapping(from, to VarOrder) []int {
	mapping := make([]int, len(to))
	for i, v := range to {
		mapping[i] = from.indexOf(v)
	}
	return mapping
}

// dotLayoutHint picks a left-to-right or top-to-bottom layout direction from
// a cheap comparison of the automaton's state count (breadth) against its
// longest shortest-path depth from an initial state.
func dotLayoutHint(lab Labeled) string {
	depth := automatonDepth(lab.Automaton)
	breadth := len(lab.States())
	if breadth > depth*2 {
		return "\trankdir=LR;\n"
	}
	return "\trankdir=TB;\n"
}

func automatonDepth(a *automaton.Automaton) int {
	dist := map[automaton.State]int{}
	var queue []automaton.State
	for _, s := range a.Initial() {
		dist[s] = 0
		queue = append(queue, s)
	}
	max := 0
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, tr := range a.TransitionsFrom(s) {
			if _, ok := dist[tr.To]; !ok {
				dist[tr.To] = dist[s] + 1
				if dist[tr.To] > max {
					max = dist[tr.To]
				}
				queue = append(queue, tr.To)
			}
		}
	}
	return max
}

// compressBitPatterns iteratively merges bit-string labels that differ in
// exactly one concrete (non-wildcard) position into a single pattern with a
// '*' at that position, to a fixpoint, returning the result sorted for
// determinism.
func compressBitPatterns(patterns []string) []string {
	work := map[string]bool{}
	for _, p := range patterns {
		work[p] = true
	}

	for {
		merged := false
		items := make([]string, 0, len(work))
		for p := range work {
			items = append(items, p)
		}
		sort.Strings(items)

	outer:
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if m, ok := mergeOneBit(items[i], items[j]); ok {
					delete(work, items[i])
					delete(work, items[j])
					work[m] = true
					merged = true
					break outer
				}
			}
		}
		if !merged {
			break
		}
	}

	out := make([]string, 0, len(work))
	for p := range work {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// mergeOneBit returns the merged pattern and true if a and b are equal
// length and differ in exactly one position, with neither side already
// wildcarded at that position.
func mergeOneBit(a, b string) (string, bool) {
	if len(a) != len(b) {
		return "", false
	}
	diffPos := -1
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			continue
		}
		if a[i] == '*' || b[i] == '*' {
			return "", false
		}
		if diffPos != -1 {
			return "", false
		}
		diffPos = i
	}
	if diffPos == -1 {
		return "", false
	}
	merged := []byte(a)
	merged[diffPos] = '*'
	return string(merged), true
}
