package presburger

import (
	"strconv"
	"strings"

	"github.com/dekarrin/presburger/internal/automaton"
)

// Solution is one satisfying assignment witnessed by a single accepting run.
type Solution struct {
	PathInt   []int
	PathBits  []string
	Variables []string
	VarBits   map[string]string
	VarInts   map[string]int
}

type bfsNode struct {
	state automaton.State
	path  []int // symbols seen so far
}

// EnumerateSolutions returns up to k distinct satisfying assignments of lab,
// found by BFS over (state, path) pairs so that shorter witnesses are
// reported first. displayOrder, if non-nil, controls the order Solution's
// Variables/PathBits fields list variables in; it must be a permutation of
// lab.Order. Two paths that decode to the same integer tuple (after
// trailing-zero collapse) count as one solution.
func EnumerateSolutions(lab Labeled, k int, displayOrder VarOrder) []Solution {
	order := lab.Order
	if displayOrder != nil {
		order = displayOrder
	}

	var solutions []Solution
	seenTuples := map[string]bool{}

	// live holds the states from which a path ending in a non-zero symbol
	// reaches a final state; only such a path can decode to a tuple not yet
	// reported, so exploration stops at every other state and a finite
	// solution set smaller than k ends the search.
	live := map[automaton.State]bool{}
	for changed := true; changed; {
		changed = false
		for _, tr := range lab.AllTransitions() {
			if !live[tr.From] && (live[tr.To] || (tr.Symbol != 0 && lab.IsFinal(tr.To))) {
				live[tr.From] = true
				changed = true
			}
		}
	}

	queue := []bfsNode{}
	for _, s := range lab.Initial() {
		queue = append(queue, bfsNode{state: s})
	}

	for len(queue) > 0 && len(solutions) < k {
		node := queue[0]
		queue = queue[1:]

		if lab.IsFinal(node.state) {
			sol := decodeSolution(lab.Order, order, node.path)
			key := tupleKey(sol.VarInts, order)
			if !seenTuples[key] {
				seenTuples[key] = true
				solutions = append(solutions, sol)
				if len(solutions) >= k {
					break
				}
			}
		}

		if !live[node.state] || isPrunableSelfLoop(lab, node.state) {
			continue
		}

		for _, tr := range lab.TransitionsFrom(node.state) {
			next := append(append([]int(nil), node.path...), tr.Symbol)
			queue = append(queue, bfsNode{state: tr.To, path: next})
		}
	}

	return solutions
}

// isPrunableSelfLoop reports whether s's only outgoing transition is a
// self-loop on the all-zero symbol — such a state can never produce a new
// assignment by further exploration, since any acceptance past this point
// collapses to the same tuple under trailing-zero equivalence.
func isPrunableSelfLoop(lab Labeled, s automaton.State) bool {
	ts := lab.TransitionsFrom(s)
	return len(ts) == 1 && ts[0].Symbol == 0 && ts[0].To == s
}

func decodeSolution(bitOrder, displayOrder VarOrder, path []int) Solution {
	varBits := make(map[string]string, len(bitOrder))
	for i, v := range bitOrder {
		bits := make([]byte, len(path))
		for step, sym := range path {
			if (sym>>uint(i))&1 == 1 {
				bits[step] = '1'
			} else {
				bits[step] = '0'
			}
		}
		varBits[v] = string(bits)
	}

	varInts := make(map[string]int, len(bitOrder))
	for v, bits := range varBits {
		n := 0
		for i := len(bits) - 1; i >= 0; i-- {
			n <<= 1
			if bits[i] == '1' {
				n |= 1
			}
		}
		varInts[v] = n
	}

	pathBits := make([]string, len(path))
	for i, sym := range path {
		pathBits[i] = symbolToBitString(sym, len(bitOrder))
	}

	sol := Solution{
		PathInt:   append([]int(nil), path...),
		PathBits:  pathBits,
		Variables: append(VarOrder(nil), displayOrder...),
		VarBits:   map[string]string{},
		VarInts:   map[string]int{},
	}
	for _, v := range displayOrder {
		sol.VarBits[v] = varBits[v]
		sol.VarInts[v] = varInts[v]
	}
	return sol
}

func symbolToBitString(sym, width int) string {
	bits := make([]byte, width)
	for i := 0; i < width; i++ {
		if (sym>>uint(i))&1 == 1 {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits)
}

// tupleKey collapses a solution's variable assignment into a stable string
// key for deduplication across paths of different length that decode to the
// same tuple (trailing-zero equivalence is already handled by VarInts, which
// ignores path length beyond the highest set bit).
func tupleKey(varInts map[string]int, order VarOrder) string {
	parts := make([]string, len(order))
	for i, v := range order {
		parts[i] = strconv.Itoa(varInts[v])
	}
	return strings.Join(parts, ",")
}
