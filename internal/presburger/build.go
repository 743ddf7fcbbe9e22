package presburger

import (
	"sort"

	"github.com/dekarrin/presburger/internal/automaton"
)

func sortedKeys(m map[string]int) VarOrder {
	out := make(VarOrder, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// VarOrder is an ordered list of tracked variable names; its index gives the
// meaning of each bit position in an Automaton's alphabet.
type VarOrder []string

func (vo VarOrder) indexOf(name string) int {
	for i, v := range vo {
		if v == name {
			return i
		}
	}
	return -1
}

func (vo VarOrder) contains(name string) bool { return vo.indexOf(name) >= 0 }

// Labeled pairs an Automaton with the VarOrder giving its alphabet's
// meaning: bit i of a symbol is the value of Order[i].
type Labeled struct {
	*automaton.Automaton
	Order VarOrder
}

// encode maps an integer residue onto a non-negative automaton.State:
// non-negative k maps to 2k, negative k maps to -2k+1.
func encode(k int) automaton.State {
	if k >= 0 {
		return automaton.State(2 * k)
	}
	return automaton.State(-2*k + 1)
}

// decode is encode's inverse.
func decode(s automaton.State) int {
	n := int(s)
	if n%2 == 0 {
		return n / 2
	}
	return -(n - 1) / 2
}

// floorDiv performs floor division, unlike Go's truncating "/" operator.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func bitsOf(symbol, width int) []int {
	bits := make([]int, width)
	for i := 0; i < width; i++ {
		bits[i] = (symbol >> uint(i)) & 1
	}
	return bits
}

func symbolOf(bits []int) int {
	sym := 0
	for i, b := range bits {
		if b != 0 {
			sym |= 1 << uint(i)
		}
	}
	return sym
}

// AtomicAutomaton builds A(a·x ≤ b) by BFS over integer residue states:
// from residue k, on symbol ζ, the successor is floor((k - a·ζ)/2);
// k is accepting iff k ≥ 0; the initial residue is b.
func AtomicAutomaton(lf LinearForm, order VarOrder) Labeled {
	n := len(order)
	a := make([]int, n)
	for i, v := range order {
		a[i] = lf.Coeffs[v]
	}

	aut := automaton.New(n)
	numSymbols := 1 << uint(n)

	seen := map[int]bool{}
	initial := encode(lf.B)
	aut.SetInitial(initial)
	aut.SetFinal(initial, lf.B >= 0)
	seen[lf.B] = true
	worklist := []int{lf.B}

	for len(worklist) > 0 {
		k := worklist[0]
		worklist = worklist[1:]
		src := encode(k)

		for zeta := 0; zeta < numSymbols; zeta++ {
			bits := bitsOf(zeta, n)
			dot := 0
			for i, bit := range bits {
				dot += a[i] * bit
			}
			kPrime := floorDiv(k-dot, 2)
			dst := encode(kPrime)
			aut.AddTransition(src, zeta, dst)
			if !seen[kPrime] {
				seen[kPrime] = true
				aut.SetFinal(dst, kPrime >= 0)
				worklist = append(worklist, kPrime)
			}
		}
	}

	aut.Prune()

	return Labeled{Automaton: aut, Order: order}
}

// Expand re-interprets a's transitions over newOrder, wildcarding bits for
// variables newOrder introduces that a did not track. Variables a tracked
// that are absent from newOrder must not occur — callers only expand to
// supersets.
func Expand(a Labeled, newOrder VarOrder) Labeled {
	mapping := make([]int, len(newOrder))
	for i, v := range newOrder {
		mapping[i] = a.Order.indexOf(v)
	}

	out := automaton.New(len(newOrder))
	for _, s := range a.States() {
		out.AddState(s)
	}
	for _, s := range a.Initial() {
		out.SetInitial(s)
	}
	for _, s := range a.Final() {
		out.SetFinal(s, true)
	}

	for _, tr := range a.AllTransitions() {
		oldBits := bitsOf(tr.Symbol, a.Width)
		for _, sym := range expandSymbol(mapping, oldBits) {
			out.AddTransition(tr.From, sym, tr.To)
		}
	}

	return Labeled{Automaton: out, Order: newOrder}
}

// expandSymbol returns every new symbol consistent with oldBits under
// mapping: position i takes oldBits[mapping[i]] when mapping[i] is defined,
// and ranges over {0,1} (a wildcard) when mapping[i] == -1.
func expandSymbol(mapping []int, oldBits []int) []int {
	var wildcards []int
	base := make([]int, len(mapping))
	for i, m := range mapping {
		if m == -1 {
			wildcards = append(wildcards, i)
		} else {
			base[i] = oldBits[m]
		}
	}

	if len(wildcards) == 0 {
		return []int{symbolOf(base)}
	}

	out := make([]int, 0, 1<<uint(len(wildcards)))
	for combo := 0; combo < (1 << uint(len(wildcards))); combo++ {
		bits := append([]int(nil), base...)
		for j, pos := range wildcards {
			bits[pos] = (combo >> uint(j)) & 1
		}
		out = append(out, symbolOf(bits))
	}
	return out
}

// unionOrder computes V_A ++ (V_B \ V_A), the shared alphabet for combining
// two automata. The prefix-of-a ordering matters: Expand's identity mapping
// for already-tracked variables depends on a's variables keeping their
// original positions.
func unionOrder(a, b VarOrder) VarOrder {
	out := append(VarOrder(nil), a...)
	for _, v := range b {
		if !a.contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// Union returns the automaton for a's language union b's language, aligning
// both onto the combined variable order first.
func Union(a, b Labeled) Labeled {
	v := unionOrder(a.Order, b.Order)
	a2 := Expand(a, v)
	b2 := Expand(b, v)
	return Labeled{Automaton: automaton.Union(a2.Automaton, b2.Automaton), Order: v}
}

// Complement returns the automaton for the complement of a's language, over
// the same variable order.
func Complement(a Labeled) Labeled {
	return Labeled{Automaton: automaton.Complement(a.Automaton), Order: a.Order}
}

// Project existentially quantifies out v: bit i (v's position) is
// removed from every symbol, and the final-state set is closed backward
// along 0-bit transitions so trailing-zero extensions of an accepted path
// remain accepted after the shorter prefix loses its own acceptance bit.
func Project(a Labeled, v string) Labeled {
	i := a.Order.indexOf(v)
	if i < 0 {
		return a
	}

	newOrder := make(VarOrder, 0, len(a.Order)-1)
	for _, name := range a.Order {
		if name != v {
			newOrder = append(newOrder, name)
		}
	}

	out := automaton.New(len(newOrder))
	for _, s := range a.States() {
		out.AddState(s)
	}
	for _, s := range a.Initial() {
		out.SetInitial(s)
	}
	for _, s := range a.Final() {
		out.SetFinal(s, true)
	}

	for _, tr := range a.AllTransitions() {
		sym2 := removeBit(tr.Symbol, i)
		out.AddTransition(tr.From, sym2, tr.To)
	}

	closeFinalsOverZero(out)
	out.Prune()

	return Labeled{Automaton: out, Order: newOrder}
}

// removeBit drops bit i from symbol, shifting higher bits down one place.
func removeBit(symbol, i int) int {
	low := symbol & ((1 << uint(i)) - 1)
	high := (symbol >> uint(i+1)) << uint(i)
	return low | high
}

// closeFinalsOverZero grows out's final-state set backward along
// zero-symbol transitions until no more states can be added.
func closeFinalsOverZero(out *automaton.Automaton) {
	changed := true
	for changed {
		changed = false
		for _, tr := range out.AllTransitions() {
			if tr.Symbol == 0 && out.IsFinal(tr.To) && !out.IsFinal(tr.From) {
				out.SetFinal(tr.From, true)
				changed = true
			}
		}
	}
}

// BuildAutomaton compiles a normalized formula (using only LessEqual, Not,
// Or, Exists) into its accepting automaton.
func BuildAutomaton(f *Formula) (Labeled, error) {
	switch f.Kind {
	case FLessEqual:
		lf, err := Linearize(f)
		if err != nil {
			return Labeled{}, err
		}
		order := sortedKeys(lf.Coeffs)
		return AtomicAutomaton(lf, order), nil

	case FNot:
		inner, err := BuildAutomaton(f.Sub)
		if err != nil {
			return Labeled{}, err
		}
		return Complement(inner), nil

	case FOr:
		left, err := BuildAutomaton(f.L)
		if err != nil {
			return Labeled{}, err
		}
		right, err := BuildAutomaton(f.R)
		if err != nil {
			return Labeled{}, err
		}
		return Union(left, right), nil

	case FExists:
		inner, err := BuildAutomaton(f.Sub)
		if err != nil {
			return Labeled{}, err
		}
		return Project(inner, f.BoundVar), nil

	default:
		return Labeled{}, InternalError{Message: "BuildAutomaton requires a normalized formula (LessEqual/Not/Or/Exists only)"}
	}
}
