package presburger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDotProducesValidDigraphHeader(t *testing.T) {
	lab := buildFor(t, "x <= 3")
	out := ToDot(lab, nil)
	assert.True(t, strings.HasPrefix(out, "digraph automaton {"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestToDotIncludesDoubleCircleForFinalStates(t *testing.T) {
	lab := buildFor(t, "x <= 3")
	out := ToDot(lab, nil)
	assert.Contains(t, out, "doublecircle")
}

func TestMergeOneBitMergesSinglePositionDifference(t *testing.T) {
	merged, ok := mergeOneBit("01", "11")
	require.True(t, ok)
	assert.Equal(t, "*1", merged)
}

func TestMergeOneBitRejectsMultipleDifferences(t *testing.T) {
	_, ok := mergeOneBit("00", "11")
	assert.False(t, ok)
}

func TestMergeOneBitRejectsExistingWildcard(t *testing.T) {
	_, ok := mergeOneBit("*0", "01")
	assert.False(t, ok)
}

func TestCompressBitPatternsFixpoint(t *testing.T) {
	// 00, 01, 10, 11 should fully collapse to a single "**"
	got := compressBitPatterns([]string{"00", "01", "10", "11"})
	assert.Equal(t, []string{"**"}, got)
}

func TestCompressBitPatternsPartialMerge(t *testing.T) {
	// 01 merges with 11 (differ only in the first bit); 10 has no remaining
	// partner once that merge happens.
	got := compressBitPatterns([]string{"01", "10", "11"})
	assert.Equal(t, []string{"*1", "10"}, got)
}
