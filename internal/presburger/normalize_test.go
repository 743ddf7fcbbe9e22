package presburger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertOnlyNormalForm walks f and fails the test if any node uses a
// connective or quantifier outside {LessEqual, Not, Or, Exists}.
func assertOnlyNormalForm(t *testing.T, f *Formula) {
	t.Helper()
	if f == nil {
		return
	}
	switch f.Kind {
	case FLessEqual, FNot:
		if f.Kind == FNot {
			assertOnlyNormalForm(t, f.Sub)
		}
	case FOr:
		assertOnlyNormalForm(t, f.L)
		assertOnlyNormalForm(t, f.R)
	case FExists:
		assertOnlyNormalForm(t, f.Sub)
	default:
		t.Fatalf("formula contains disallowed kind %v in %s", f.Kind, f.String())
	}
}

func TestNormalizeEliminatesEq(t *testing.T) {
	f := Eq(Var("x"), Const(3))
	got := Normalize(f)
	assertOnlyNormalForm(t, got)
}

func TestNormalizeEliminatesAllConnectives(t *testing.T) {
	f := Iff(Implies(Eq(Var("x"), One()), Less(Var("x"), Var("y"))), GreaterEqual(Var("y"), Zero()))
	got := Normalize(f)
	assertOnlyNormalForm(t, got)
}

func TestNormalizeEliminatesForAll(t *testing.T) {
	f := ForAll("x", GreaterEqual(Var("x"), Zero()))
	got := Normalize(f)
	assertOnlyNormalForm(t, got)
}

func TestNormalizeDropsUnusedExists(t *testing.T) {
	f := Exists("y", LessEqual(Var("x"), Const(3)))
	got := Normalize(f)
	assert.Equal(t, FLessEqual, got.Kind)
}

func TestNormalizeKeepsExistsOverFreeVar(t *testing.T) {
	f := Exists("x", LessEqual(Var("x"), Const(3)))
	got := Normalize(f)
	assert.Equal(t, FExists, got.Kind)
	assert.Equal(t, "x", got.BoundVar)
}

func TestNormalizePushesExistsThroughOr(t *testing.T) {
	f := Exists("x", Or(LessEqual(Var("x"), Const(3)), LessEqual(Var("y"), Const(1))))
	got := Normalize(f)
	assert.Equal(t, FOr, got.Kind)
	assert.Equal(t, FExists, got.L.Kind)
	// the copy of E x on the y <= 1 branch (no free x) should have been dropped
	assert.Equal(t, FLessEqual, got.R.Kind)
}

func TestNormalizeNeverPushesThroughNot(t *testing.T) {
	f := Not(Exists("x", LessEqual(Var("x"), Const(3))))
	got := Normalize(f)
	assert.Equal(t, FNot, got.Kind)
	assert.Equal(t, FExists, got.Sub.Kind)
}

func TestNormalizeDoubleNegationElimination(t *testing.T) {
	f := Not(Not(LessEqual(Var("x"), Const(3))))
	got := Normalize(f)
	assert.Equal(t, FLessEqual, got.Kind)
}
