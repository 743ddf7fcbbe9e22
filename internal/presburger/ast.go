package presburger

import (
	"fmt"
	"sort"

	"github.com/dekarrin/presburger/internal/util"
)

// TermKind is the closed set of term-tree node tags. Term is a tagged
// variant dispatched on Kind, not an open interface hierarchy — the set of
// term shapes is fixed by the grammar, so exhaustive switch-on-Kind is
// preferred over open polymorphism.
type TermKind int

const (
	TermZero TermKind = iota
	TermOne
	TermConst
	TermVar
	TermMult
	TermAdd
	TermSub
)

// Term is a node of the arithmetic term tree: Zero, One, Const(n), Var(name),
// Mult(n,var), Add(l,r), Sub(l,r). Which fields are meaningful depends on
// Kind; unused fields are left at their zero value.
type Term struct {
	Kind  TermKind
	Value int    // TermConst
	Name  string // TermVar, TermMult
	Coeff int    // TermMult
	Left  *Term  // TermAdd, TermSub
	Right *Term  // TermAdd, TermSub
}

func Zero() *Term { return &Term{Kind: TermZero} }
func One() *Term  { return &Term{Kind: TermOne} }
func Const(n int) *Term {
	return &Term{Kind: TermConst, Value: n}
}
func Var(name string) *Term {
	return &Term{Kind: TermVar, Name: name}
}
func Mult(n int, name string) *Term {
	return &Term{Kind: TermMult, Coeff: n, Name: name}
}
func Add(l, r *Term) *Term {
	return &Term{Kind: TermAdd, Left: l, Right: r}
}
func Sub(l, r *Term) *Term {
	return &Term{Kind: TermSub, Left: l, Right: r}
}

// String renders a term in a form that would re-parse to an equal tree.
func (t *Term) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TermZero:
		return "0"
	case TermOne:
		return "1"
	case TermConst:
		return fmt.Sprintf("%d", t.Value)
	case TermVar:
		return t.Name
	case TermMult:
		return fmt.Sprintf("%d%s", t.Coeff, t.Name)
	case TermAdd:
		return fmt.Sprintf("(%s + %s)", t.Left.String(), t.Right.String())
	case TermSub:
		return fmt.Sprintf("(%s - %s)", t.Left.String(), t.Right.String())
	default:
		return "<bad term>"
	}
}

// Equal reports whether t and o have identical tree structure.
func (t *Term) Equal(o *Term) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TermZero, TermOne:
		return true
	case TermConst:
		return t.Value == o.Value
	case TermVar:
		return t.Name == o.Name
	case TermMult:
		return t.Coeff == o.Coeff && t.Name == o.Name
	case TermAdd, TermSub:
		return t.Left.Equal(o.Left) && t.Right.Equal(o.Right)
	default:
		return false
	}
}

// FreeVars returns the set of variable names occurring in t.
func (t *Term) FreeVars(out map[string]bool) {
	if t == nil {
		return
	}
	switch t.Kind {
	case TermVar, TermMult:
		out[t.Name] = true
	case TermAdd, TermSub:
		t.Left.FreeVars(out)
		t.Right.FreeVars(out)
	}
}

// FormulaKind is the closed set of formula-tree node tags. After
// Normalize, only FLessEqual, FNot, FOr, and FExists occur.
type FormulaKind int

const (
	FLessEqual FormulaKind = iota
	FEq
	FLess
	FGreater
	FGreaterEqual
	FNot
	FAnd
	FOr
	FImplies
	FIff
	FExists
	FForAll
)

// Formula is a node of the formula tree. Which fields apply depends on Kind:
// the five comparisons use Left/Right (terms); Not/Exists/ForAll use Sub (a
// formula) and, for the quantifiers, BoundVar; And/Or/Implies/Iff use L/R
// (formulas).
type Formula struct {
	Kind FormulaKind

	// comparisons
	Left, Right *Term

	// Not, Exists, ForAll
	Sub      *Formula
	BoundVar string

	// And, Or, Implies, Iff
	L, R *Formula
}

func LessEqual(l, r *Term) *Formula    { return &Formula{Kind: FLessEqual, Left: l, Right: r} }
func Eq(l, r *Term) *Formula           { return &Formula{Kind: FEq, Left: l, Right: r} }
func Less(l, r *Term) *Formula         { return &Formula{Kind: FLess, Left: l, Right: r} }
func Greater(l, r *Term) *Formula      { return &Formula{Kind: FGreater, Left: l, Right: r} }
func GreaterEqual(l, r *Term) *Formula { return &Formula{Kind: FGreaterEqual, Left: l, Right: r} }
func Not(f *Formula) *Formula          { return &Formula{Kind: FNot, Sub: f} }
func And(l, r *Formula) *Formula       { return &Formula{Kind: FAnd, L: l, R: r} }
func Or(l, r *Formula) *Formula        { return &Formula{Kind: FOr, L: l, R: r} }
func Implies(l, r *Formula) *Formula   { return &Formula{Kind: FImplies, L: l, R: r} }
func Iff(l, r *Formula) *Formula       { return &Formula{Kind: FIff, L: l, R: r} }
func Exists(v string, f *Formula) *Formula {
	return &Formula{Kind: FExists, BoundVar: v, Sub: f}
}
func ForAll(v string, f *Formula) *Formula {
	return &Formula{Kind: FForAll, BoundVar: v, Sub: f}
}

var formulaConnective = map[FormulaKind]string{
	FLessEqual: "<=", FEq: "=", FLess: "<", FGreater: ">", FGreaterEqual: ">=",
}

// String renders a formula in a form that would re-parse to an equal tree.
func (f *Formula) String() string {
	if f == nil {
		return "<nil>"
	}
	switch f.Kind {
	case FLessEqual, FEq, FLess, FGreater, FGreaterEqual:
		return fmt.Sprintf("(%s %s %s)", f.Left.String(), formulaConnective[f.Kind], f.Right.String())
	case FNot:
		return fmt.Sprintf("NOT %s", f.Sub.String())
	case FAnd:
		return fmt.Sprintf("(%s AND %s)", f.L.String(), f.R.String())
	case FOr:
		return fmt.Sprintf("(%s OR %s)", f.L.String(), f.R.String())
	case FImplies:
		return fmt.Sprintf("(%s -> %s)", f.L.String(), f.R.String())
	case FIff:
		return fmt.Sprintf("(%s <-> %s)", f.L.String(), f.R.String())
	case FExists:
		return fmt.Sprintf("E %s . %s", f.BoundVar, f.Sub.String())
	case FForAll:
		return fmt.Sprintf("A %s . %s", f.BoundVar, f.Sub.String())
	default:
		return "<bad formula>"
	}
}

// Equal reports whether f and o have identical tree structure.
func (f *Formula) Equal(o *Formula) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Kind != o.Kind {
		return false
	}
	switch f.Kind {
	case FLessEqual, FEq, FLess, FGreater, FGreaterEqual:
		return f.Left.Equal(o.Left) && f.Right.Equal(o.Right)
	case FNot:
		return f.Sub.Equal(o.Sub)
	case FAnd, FOr, FImplies, FIff:
		return f.L.Equal(o.L) && f.R.Equal(o.R)
	case FExists, FForAll:
		return f.BoundVar == o.BoundVar && f.Sub.Equal(o.Sub)
	default:
		return false
	}
}

// FreeVars returns the sorted list of variables occurring free in f.
func FreeVars(f *Formula) []string {
	set := map[string]bool{}
	freeVarsInto(f, set)
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func freeVarsInto(f *Formula, out map[string]bool) {
	if f == nil {
		return
	}
	switch f.Kind {
	case FLessEqual, FEq, FLess, FGreater, FGreaterEqual:
		f.Left.FreeVars(out)
		f.Right.FreeVars(out)
	case FNot:
		freeVarsInto(f.Sub, out)
	case FAnd, FOr, FImplies, FIff:
		freeVarsInto(f.L, out)
		freeVarsInto(f.R, out)
	case FExists, FForAll:
		inner := map[string]bool{}
		freeVarsInto(f.Sub, inner)
		delete(inner, f.BoundVar)
		for v := range inner {
			out[v] = true
		}
	}
}

// boundVars returns the set of names bound by some quantifier in f,
// including variables shadowed deeper in the tree.
func boundVars(f *Formula, out map[string]bool) {
	if f == nil {
		return
	}
	switch f.Kind {
	case FNot:
		boundVars(f.Sub, out)
	case FAnd, FOr, FImplies, FIff:
		boundVars(f.L, out)
		boundVars(f.R, out)
	case FExists, FForAll:
		out[f.BoundVar] = true
		boundVars(f.Sub, out)
	}
}

// joinVars renders a variable list for error messages as a natural-language
// list ("x, y, and z") rather than a bare comma join.
func joinVars(vars []string) string {
	return util.MakeTextList(append([]string{}, vars...))
}
