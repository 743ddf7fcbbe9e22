package presburger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandMacrosNoHeaders(t *testing.T) {
	out, err := ExpandMacros("x <= 3")
	require.NoError(t, err)
	assert.Equal(t, "x <= 3", out)
}

func TestExpandMacrosSingleMacro(t *testing.T) {
	out, err := ExpandMacros("Pos(v) = v >= 0\nPos(x)")
	require.NoError(t, err)
	f, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, GreaterEqual(Var("x"), Zero()), f)
}

func TestExpandMacrosChainedInvocation(t *testing.T) {
	text := "Pos(v) = v >= 0\n" +
		"Bounded(v,hi) = Pos(v) AND v <= hi\n" +
		"Bounded(x, 10)"
	out, err := ExpandMacros(text)
	require.NoError(t, err)
	f, err := Parse(out)
	require.NoError(t, err)
	want := And(GreaterEqual(Var("x"), Zero()), LessEqual(Var("x"), Const(10)))
	assert.Equal(t, want, f)
}

func TestExpandMacrosRejectsReservedName(t *testing.T) {
	_, err := ExpandMacros("AND(v) = v >= 0\nAND(x)")
	require.Error(t, err)
	var me MacroError
	require.ErrorAs(t, err, &me)
}

func TestExpandMacrosRejectsReservedParam(t *testing.T) {
	_, err := ExpandMacros("Foo(NOT) = NOT >= 0\nFoo(x)")
	require.Error(t, err)
}

func TestExpandMacrosRejectsFreeVarMismatch(t *testing.T) {
	_, err := ExpandMacros("Foo(v) = v >= 0 AND w = 1\nFoo(x)")
	require.Error(t, err)
	var me MacroError
	require.ErrorAs(t, err, &me)
}

func TestExpandMacrosRejectsForwardReference(t *testing.T) {
	text := "Foo(v) = Bar(v)\nBar(v) = v >= 0\nFoo(x)"
	_, err := ExpandMacros(text)
	require.Error(t, err)
}

func TestExpandMacrosRejectsArityMismatch(t *testing.T) {
	text := "Pos(v) = v >= 0\nPos(x, y)"
	_, err := ExpandMacros(text)
	require.Error(t, err)
}

func TestExpandMacrosRejectsDuplicateDefinition(t *testing.T) {
	text := "Pos(v) = v >= 0\nPos(v) = v >= 1\nPos(x)"
	_, err := ExpandMacros(text)
	require.Error(t, err)
}

func TestExpandMacrosArgumentWithNestedParens(t *testing.T) {
	text := "Pos(v) = v >= 0\nPos((x + y))"
	out, err := ExpandMacros(text)
	require.NoError(t, err)
	f, err := Parse(out)
	require.NoError(t, err)
	want := GreaterEqual(Add(Var("x"), Var("y")), Zero())
	assert.Equal(t, want, f)
}
