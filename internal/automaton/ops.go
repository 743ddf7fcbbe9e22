package automaton

import (
	"sort"
	"strconv"
	"strings"
)

// subsetKey turns a set of NFA states into a stable map key: a
// sorted-and-joined int key since states are plain ints.
func subsetKey(states map[State]bool) string {
	ids := make([]int, 0, len(states))
	for s := range states {
		ids = append(ids, int(s))
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Determinize converts a into a deterministic automaton accepting the same
// language via the standard subset construction (purple-dragon-book
// algorithm 3.20).
func Determinize(a *Automaton) *Automaton {
	if a.IsDeterministic() {
		return a.Copy()
	}

	numSymbols := 1 << uint(a.Width)

	startSet := map[State]bool{}
	for _, s := range a.Initial() {
		startSet[s] = true
	}

	dfa := New(a.Width)
	setOf := map[string]map[State]bool{}
	idOf := map[string]State{}

	newDState := func(set map[State]bool) State {
		key := subsetKey(set)
		if id, ok := idOf[key]; ok {
			return id
		}
		id := dfa.NewState()
		idOf[key] = id
		setOf[key] = set
		for s := range set {
			if a.IsFinal(s) {
				dfa.SetFinal(id, true)
				break
			}
		}
		return id
	}

	startID := newDState(startSet)
	dfa.SetInitial(startID)

	marked := map[string]bool{}
	worklist := []string{subsetKey(startSet)}

	for len(worklist) > 0 {
		key := worklist[0]
		worklist = worklist[1:]
		if marked[key] {
			continue
		}
		marked[key] = true

		set := setOf[key]
		fromID := idOf[key]

		for sym := 0; sym < numSymbols; sym++ {
			next := map[State]bool{}
			for s := range set {
				for _, t := range a.trans[s] {
					if t.Symbol == sym {
						next[t.To] = true
					}
				}
			}
			if len(next) == 0 {
				continue
			}
			nextKey := subsetKey(next)
			toID := newDState(next)
			dfa.AddTransition(fromID, sym, toID)
			if !marked[nextKey] {
				worklist = append(worklist, nextKey)
			}
		}
	}

	return dfa
}

// Complete adds a single sink state with a self-loop on every symbol, then
// wires every reachable state missing an outgoing transition for some symbol
// to that sink. If a is already complete, it is returned unchanged (a copy).
func Complete(a *Automaton) *Automaton {
	out := a.Copy()
	numSymbols := 1 << uint(a.Width)

	var missing []Transition
	for s := range out.Reachable() {
		present := map[int]bool{}
		for _, t := range out.trans[s] {
			present[t.Symbol] = true
		}
		for sym := 0; sym < numSymbols; sym++ {
			if !present[sym] {
				missing = append(missing, Transition{From: s, Symbol: sym})
			}
		}
	}

	if len(missing) == 0 {
		return out
	}

	sink := out.NewState()
	for sym := 0; sym < numSymbols; sym++ {
		out.AddTransition(sink, sym, sink)
	}
	for _, m := range missing {
		out.AddTransition(m.From, m.Symbol, sink)
	}
	return out
}

// Complement returns ¬a. Per the contract in the Boolean-combinator design,
// a is determinized (if needed) and completed before final states are
// flipped; no minimization happens in between. Complementing is relative to
// the reachable state set, consistent with the package's "final states are
// reachable" invariant.
func Complement(a *Automaton) *Automaton {
	det := a
	if !a.IsDeterministic() {
		det = Determinize(a)
	}
	complete := Complete(det)

	out := complete.Copy()
	reach := out.Reachable()
	for s := range reach {
		out.SetFinal(s, !complete.IsFinal(s))
	}
	out.Prune()
	return out
}

// Union returns the NFA union of a and b, which must already share an
// alphabet width (callers align variable sets before calling this). States
// are relabeled to disjoint ranges first; the result's initial and final
// sets are the union of the two inputs'.
func Union(a, b *Automaton) *Automaton {
	if a.Width != b.Width {
		panic("automaton: Union requires equal alphabet widths; align first")
	}

	ra, _ := a.Relabel(0)
	rb, _ := b.Relabel(ra.nextID)

	out := New(a.Width)
	for _, s := range ra.States() {
		out.AddState(s)
	}
	for _, s := range rb.States() {
		out.AddState(s)
	}
	for _, s := range ra.Initial() {
		out.SetInitial(s)
	}
	for _, s := range rb.Initial() {
		out.SetInitial(s)
	}
	for _, s := range ra.Final() {
		out.SetFinal(s, true)
	}
	for _, s := range rb.Final() {
		out.SetFinal(s, true)
	}
	for _, t := range ra.AllTransitions() {
		out.AddTransition(t.From, t.Symbol, t.To)
	}
	for _, t := range rb.AllTransitions() {
		out.AddTransition(t.From, t.Symbol, t.To)
	}
	out.Prune()
	return out
}

// Minimize returns a minimal-state DFA for the same language as a, via
// Moore partition refinement over a completed, deterministic automaton. a
// need not already be a DFA.
//
// Not currently called from the build pipeline — Determinize plus Prune
// keeps intermediate automata small enough in practice that full
// minimization hasn't been wired in as a build step. Kept and tested as a
// standalone operation for callers that want a canonical minimal form.
func Minimize(a *Automaton) *Automaton {
	det := a
	if !a.IsDeterministic() {
		det = Determinize(a)
	}
	det = Complete(det)
	det.Prune()

	numSymbols := 1 << uint(det.Width)
	states := det.States()

	// initial partition: final vs. non-final
	partitionOf := map[State]int{}
	for _, s := range states {
		if det.IsFinal(s) {
			partitionOf[s] = 1
		} else {
			partitionOf[s] = 0
		}
	}
	numParts := 2

	trans := map[State]map[int]State{}
	for _, s := range states {
		trans[s] = map[int]State{}
		for _, t := range det.trans[s] {
			trans[s][t.Symbol] = t.To
		}
	}

	for {
		sigOf := map[State]string{}
		sigID := map[string]int{}
		newPartitionOf := map[State]int{}

		for _, s := range states {
			var sb strings.Builder
			sb.WriteString(strconv.Itoa(partitionOf[s]))
			for sym := 0; sym < numSymbols; sym++ {
				sb.WriteByte('|')
				if to, ok := trans[s][sym]; ok {
					sb.WriteString(strconv.Itoa(partitionOf[to]))
				} else {
					sb.WriteString("-")
				}
			}
			sig := sb.String()
			sigOf[s] = sig
			if _, ok := sigID[sig]; !ok {
				sigID[sig] = len(sigID)
			}
			newPartitionOf[s] = sigID[sig]
		}

		if len(sigID) == numParts {
			partitionOf = newPartitionOf
			break
		}
		partitionOf = newPartitionOf
		numParts = len(sigID)
	}

	out := New(det.Width)
	idOfPart := map[int]State{}
	repOfPart := map[int]State{}
	for _, s := range states {
		p := partitionOf[s]
		if _, ok := idOfPart[p]; !ok {
			idOfPart[p] = out.NewState()
			repOfPart[p] = s
		}
	}
	for _, s := range det.Initial() {
		out.SetInitial(idOfPart[partitionOf[s]])
	}
	for p, rep := range repOfPart {
		out.SetFinal(idOfPart[p], det.IsFinal(rep))
	}
	for _, s := range states {
		p := partitionOf[s]
		for sym, to := range trans[s] {
			out.AddTransition(idOfPart[p], sym, idOfPart[partitionOf[to]])
		}
	}
	out.Prune()
	return out
}
