package presburger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleComparison(t *testing.T) {
	f, err := Parse("x <= 3")
	require.NoError(t, err)
	assert.Equal(t, LessEqual(Var("x"), Const(3)), f)
}

func TestParseCoefficientJuxtaposition(t *testing.T) {
	f, err := Parse("4x = y")
	require.NoError(t, err)
	assert.Equal(t, Eq(Mult(4, "x"), Var("y")), f)
}

func TestParseExistentialQuantifier(t *testing.T) {
	f, err := Parse("E x . 4x = y")
	require.NoError(t, err)
	want := Exists("x", Eq(Mult(4, "x"), Var("y")))
	assert.Equal(t, want, f)
}

func TestParseForAllLongForm(t *testing.T) {
	f, err := Parse("ALL x . (x >= 0)")
	require.NoError(t, err)
	want := ForAll("x", GreaterEqual(Var("x"), Zero()))
	assert.Equal(t, want, f)
}

func TestParseAndPrecedenceOverOr(t *testing.T) {
	// OR binds loosest of AND/OR, so this is (a AND b) OR c
	f, err := Parse("x = 1 AND x = 2 OR x = 3")
	require.NoError(t, err)
	want := Or(
		And(Eq(Var("x"), One()), Eq(Var("x"), Const(2))),
		Eq(Var("x"), Const(3)),
	)
	assert.Equal(t, want, f)
}

func TestParseNotBindsTighterThanAnd(t *testing.T) {
	f, err := Parse("NOT x = 1 AND x = 2")
	require.NoError(t, err)
	want := And(Not(Eq(Var("x"), One())), Eq(Var("x"), Const(2)))
	assert.Equal(t, want, f)
}

func TestParseImpliesIsRightAssociative(t *testing.T) {
	f, err := Parse("x = 1 -> x = 2 -> x = 3")
	require.NoError(t, err)
	want := Implies(Eq(Var("x"), One()), Implies(Eq(Var("x"), Const(2)), Eq(Var("x"), Const(3))))
	assert.Equal(t, want, f)
}

func TestParseIffLooserThanImplies(t *testing.T) {
	f, err := Parse("x = 1 -> x = 2 <-> x = 3")
	require.NoError(t, err)
	want := Iff(Implies(Eq(Var("x"), One()), Eq(Var("x"), Const(2))), Eq(Var("x"), Const(3)))
	assert.Equal(t, want, f)
}

func TestParseParenthesizedSubFormula(t *testing.T) {
	f, err := Parse("(x = 1 OR x = 2) AND x <= 5")
	require.NoError(t, err)
	want := And(Or(Eq(Var("x"), One()), Eq(Var("x"), Const(2))), LessEqual(Var("x"), Const(5)))
	assert.Equal(t, want, f)
}

func TestParseParenthesizedTermInComparison(t *testing.T) {
	f, err := Parse("(x + y) <= 10")
	require.NoError(t, err)
	want := LessEqual(Add(Var("x"), Var("y")), Const(10))
	assert.Equal(t, want, f)
}

func TestParseUnaryMinus(t *testing.T) {
	f, err := Parse("x = -3")
	require.NoError(t, err)
	want := Eq(Var("x"), Sub(Zero(), Const(3)))
	assert.Equal(t, want, f)
}

func TestParseAdditiveChain(t *testing.T) {
	f, err := Parse("x + y - z <= 0")
	require.NoError(t, err)
	want := LessEqual(Sub(Add(Var("x"), Var("y")), Var("z")), Zero())
	assert.Equal(t, want, f)
}

func TestParseNestedQuantifiers(t *testing.T) {
	f, err := Parse("E x . A y . x <= y")
	require.NoError(t, err)
	want := Exists("x", ForAll("y", LessEqual(Var("x"), Var("y"))))
	assert.Equal(t, want, f)
}

func TestParseTrailingGarbageIsError(t *testing.T) {
	_, err := Parse("x = 1 )")
	require.Error(t, err)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseMissingComparisonOperatorIsError(t *testing.T) {
	_, err := Parse("x 1")
	require.Error(t, err)
}

func TestParseUnterminatedParenIsError(t *testing.T) {
	_, err := Parse("(x = 1")
	require.Error(t, err)
}

func TestParseErrorIncludesLocation(t *testing.T) {
	_, err := Parse("x = @")
	require.Error(t, err)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
	assert.NotEmpty(t, pe.FullMessage())
}
