package presburger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end scenarios covering representative formula shapes.

func TestScenarioExistsFourTimesX(t *testing.T) {
	lab, err := BuildFromText("E x . 4x = y")
	require.NoError(t, err)
	sols := EnumerateSolutions(lab, 3, VarOrder{"y"})
	got := map[int]bool{}
	for _, s := range sols {
		got[s.VarInts["y"]] = true
	}
	assert.True(t, got[0])
	assert.True(t, got[4])
	assert.True(t, got[8])
	assert.False(t, got[1])
	assert.False(t, got[2])
	assert.False(t, got[3])
}

func TestScenarioTautology(t *testing.T) {
	lab, err := BuildFromText("A x . (x >= 0)")
	require.NoError(t, err)
	for x := 0; x < 16; x++ {
		assert.True(t, accepts(t, lab, 6, map[string]int{"x": x}))
	}
}

func TestScenarioContradiction(t *testing.T) {
	lab, err := BuildFromText("x = 3 AND x = 5")
	require.NoError(t, err)
	sols := EnumerateSolutions(lab, 5, nil)
	assert.Empty(t, sols)
}

func TestScenarioSumEqualsFive(t *testing.T) {
	lab, err := BuildFromText("E x . x + y = 5")
	require.NoError(t, err)
	sols := EnumerateSolutions(lab, 6, VarOrder{"y"})
	got := map[int]bool{}
	for _, s := range sols {
		got[s.VarInts["y"]] = true
	}
	for y := 0; y <= 5; y++ {
		assert.True(t, got[y])
	}
}

func TestScenarioDisjunctionExactSet(t *testing.T) {
	lab, err := BuildFromText("(x = 0) OR (x = 1) OR (x = 2)")
	require.NoError(t, err)
	sols := EnumerateSolutions(lab, 5, VarOrder{"x"})
	got := map[int]bool{}
	for _, s := range sols {
		got[s.VarInts["x"]] = true
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, got)
}

func TestScenarioDoubleOfX(t *testing.T) {
	lab, err := BuildFromText("E x . 2x = y")
	require.NoError(t, err)
	sols := EnumerateSolutions(lab, 4, VarOrder{"y"})
	got := map[int]bool{}
	for _, s := range sols {
		got[s.VarInts["y"]] = true
	}
	assert.Equal(t, map[int]bool{0: true, 2: true, 4: true, 6: true}, got)
}

// Soundness: every returned solution, substituted back into a linear atom,
// satisfies the atom's own inequality arithmetic.
func TestPropertySoundnessOfBoundedSum(t *testing.T) {
	lab, err := BuildFromText("E x . x + y = 5")
	require.NoError(t, err)
	sols := EnumerateSolutions(lab, 10, VarOrder{"y"})
	for _, s := range sols {
		y := s.VarInts["y"]
		assert.True(t, y <= 5, "unsound solution y=%d for x+y=5 with x>=0", y)
	}
}

// Alphabet-alignment correctness: aligning an automaton to a superset of its
// variables and then projecting the extra variable back out recovers the
// original language exactly.
func TestPropertyAlignThenProjectIsIdentity(t *testing.T) {
	lf, err := Linearize(LessEqual(Var("x"), Const(3)))
	require.NoError(t, err)
	orig := AtomicAutomaton(lf, VarOrder{"x"})

	aligned := Expand(orig, VarOrder{"x", "y"})
	back := Project(aligned, "y")

	for x := 0; x < 8; x++ {
		want := accepts(t, orig, 4, map[string]int{"x": x})
		got := accepts(t, back, 4, map[string]int{"x": x})
		assert.Equal(t, want, got, "mismatch at x=%d", x)
	}
}

// evalTerm and evalFormula are a small brute-force reference evaluator used
// only by tests, to check Normalize against the pre-normalization formula's
// own semantics independent of the automaton machinery.
func evalTerm(t *Term, env map[string]int) int {
	switch t.Kind {
	case TermZero:
		return 0
	case TermOne:
		return 1
	case TermConst:
		return t.Value
	case TermVar:
		return env[t.Name]
	case TermMult:
		return t.Coeff * env[t.Name]
	case TermAdd:
		return evalTerm(t.Left, env) + evalTerm(t.Right, env)
	case TermSub:
		return evalTerm(t.Left, env) - evalTerm(t.Right, env)
	default:
		panic("bad term kind")
	}
}

func evalFormula(f *Formula, env map[string]int) bool {
	switch f.Kind {
	case FLessEqual:
		return evalTerm(f.Left, env) <= evalTerm(f.Right, env)
	case FEq:
		return evalTerm(f.Left, env) == evalTerm(f.Right, env)
	case FLess:
		return evalTerm(f.Left, env) < evalTerm(f.Right, env)
	case FGreater:
		return evalTerm(f.Left, env) > evalTerm(f.Right, env)
	case FGreaterEqual:
		return evalTerm(f.Left, env) >= evalTerm(f.Right, env)
	case FNot:
		return !evalFormula(f.Sub, env)
	case FAnd:
		return evalFormula(f.L, env) && evalFormula(f.R, env)
	case FOr:
		return evalFormula(f.L, env) || evalFormula(f.R, env)
	case FImplies:
		return !evalFormula(f.L, env) || evalFormula(f.R, env)
	case FIff:
		return evalFormula(f.L, env) == evalFormula(f.R, env)
	default:
		panic("evalFormula: quantifiers not supported in this reference evaluator")
	}
}

func TestNormalizePreservesMeaning(t *testing.T) {
	f, err := Parse("x = 1 -> x <= 5")
	require.NoError(t, err)
	norm := Normalize(f)
	lab, err := BuildAutomaton(norm)
	require.NoError(t, err)

	for x := 0; x < 8; x++ {
		env := map[string]int{"x": x}
		assert.Equal(t, evalFormula(f, env), accepts(t, lab, 4, env), "mismatch at x=%d", x)
	}
}
