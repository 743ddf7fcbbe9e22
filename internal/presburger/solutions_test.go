package presburger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFor(t *testing.T, text string) Labeled {
	t.Helper()
	f, err := Parse(text)
	require.NoError(t, err)
	norm := Normalize(f)
	lab, err := BuildAutomaton(norm)
	require.NoError(t, err)
	return lab
}

func yValues(sols []Solution) []int {
	out := make([]int, len(sols))
	for i, s := range sols {
		out[i] = s.VarInts["y"]
	}
	return out
}

func TestEnumerateSolutionsMultiplesOfFour(t *testing.T) {
	lab := buildFor(t, "E x . 4x = y")
	sols := EnumerateSolutions(lab, 3, VarOrder{"y"})
	require.Len(t, sols, 3)
	assert.Subset(t, []int{0, 4, 8, 12}, yValues(sols))
	for _, y := range yValues(sols) {
		assert.Equal(t, 0, y%4)
	}
}

func TestEnumerateSolutionsContradictionIsEmpty(t *testing.T) {
	lab := buildFor(t, "x = 3 AND x = 5")
	sols := EnumerateSolutions(lab, 5, nil)
	assert.Empty(t, sols)
}

func TestEnumerateSolutionsSumEqualsFive(t *testing.T) {
	lab := buildFor(t, "E x . x + y = 5")
	sols := EnumerateSolutions(lab, 6, VarOrder{"y"})
	got := map[int]bool{}
	for _, s := range sols {
		got[s.VarInts["y"]] = true
	}
	for y := 0; y <= 5; y++ {
		assert.True(t, got[y], "expected y=%d to be a solution", y)
	}
}

func TestEnumerateSolutionsExactSet(t *testing.T) {
	lab := buildFor(t, "(x = 0) OR (x = 1) OR (x = 2)")
	sols := EnumerateSolutions(lab, 5, VarOrder{"x"})
	got := map[int]bool{}
	for _, s := range sols {
		got[s.VarInts["x"]] = true
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, got)
}

func TestEnumerateSolutionsMultiplesOfTwo(t *testing.T) {
	lab := buildFor(t, "E x . 2x = y")
	sols := EnumerateSolutions(lab, 4, VarOrder{"y"})
	got := map[int]bool{}
	for _, s := range sols {
		got[s.VarInts["y"]] = true
	}
	assert.Equal(t, map[int]bool{0: true, 2: true, 4: true, 6: true}, got)
}

func TestEnumerateSolutionsDoesNotDuplicateAcrossPathLength(t *testing.T) {
	lab := buildFor(t, "x <= 3")
	sols := EnumerateSolutions(lab, 100, VarOrder{"x"})
	seen := map[int]int{}
	for _, s := range sols {
		seen[s.VarInts["x"]]++
	}
	for x, count := range seen {
		assert.Equal(t, 1, count, "x=%d reported %d times", x, count)
	}
}
