package presburger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearizeSimpleCoefficient(t *testing.T) {
	lf, err := Linearize(LessEqual(Mult(4, "x"), Var("y")))
	require.NoError(t, err)
	assert.Equal(t, 0, lf.B)
	assert.Equal(t, map[string]int{"x": 4, "y": -1}, lf.Coeffs)
}

func TestLinearizeConstantOnRight(t *testing.T) {
	lf, err := Linearize(LessEqual(Var("x"), Const(3)))
	require.NoError(t, err)
	assert.Equal(t, 3, lf.B)
	assert.Equal(t, map[string]int{"x": 1}, lf.Coeffs)
}

func TestLinearizeNegativeConstant(t *testing.T) {
	lf, err := Linearize(LessEqual(Var("x"), Sub(Zero(), Const(3))))
	require.NoError(t, err)
	assert.Equal(t, -3, lf.B)
	assert.Equal(t, map[string]int{"x": 1}, lf.Coeffs)
}

func TestLinearizeOneTerm(t *testing.T) {
	lf, err := Linearize(LessEqual(Add(Var("x"), One()), Var("y")))
	require.NoError(t, err)
	assert.Equal(t, -1, lf.B)
	assert.Equal(t, map[string]int{"x": 1, "y": -1}, lf.Coeffs)
}

func TestLinearizeAdditiveChain(t *testing.T) {
	lf, err := Linearize(LessEqual(Sub(Add(Var("x"), Var("y")), Var("z")), Zero()))
	require.NoError(t, err)
	assert.Equal(t, 0, lf.B)
	assert.Equal(t, map[string]int{"x": 1, "y": 1, "z": -1}, lf.Coeffs)
}

func TestLinearizeDropsZeroCoefficients(t *testing.T) {
	lf, err := Linearize(LessEqual(Sub(Var("x"), Var("x")), Const(5)))
	require.NoError(t, err)
	assert.Equal(t, 5, lf.B)
	assert.Empty(t, lf.Coeffs)
}

func TestLinearizeRejectsNonLessEqual(t *testing.T) {
	_, err := Linearize(Eq(Var("x"), Const(3)))
	require.Error(t, err)
	var se SemanticError
	require.ErrorAs(t, err, &se)
}
