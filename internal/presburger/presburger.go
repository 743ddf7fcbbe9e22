// Package presburger compiles decidable first-order arithmetic formulas over
// the naturals — Presburger arithmetic — into finite automata accepting the
// least-significant-bit-first binary encodings of their satisfying
// assignments, following the classical automata-theoretic decision
// procedure: parse, macro-expand, normalize to a minimal connective set,
// linearize each atomic inequality, build one automaton per atom by BFS over
// integer residues, and combine/project with the standard Boolean and
// existential-quantifier constructions on finite automata.
package presburger

// BuildFromText runs the full front end — macro expansion, parsing, and
// normalization — then compiles the result into its accepting automaton.
// The returned Labeled's Order is the automaton's free-variable alphabet:
// each atom's variables in ascending name order, and for a disjunction the
// left operand's order followed by the variables only the right operand has.
func BuildFromText(text string) (Labeled, error) {
	expanded, err := ExpandMacros(text)
	if err != nil {
		return Labeled{}, err
	}
	f, err := Parse(expanded)
	if err != nil {
		return Labeled{}, err
	}
	norm := Normalize(f)
	return BuildAutomaton(norm)
}
