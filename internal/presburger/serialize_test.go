package presburger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeRoundTrip(t *testing.T) {
	lab := buildFor(t, "x <= 3")
	text := Serialize(lab)
	assert.True(t, strings.HasPrefix(text, "@NFA-explicit\n"))

	back, err := Deserialize(text, lab.Order)
	require.NoError(t, err)

	assert.ElementsMatch(t, lab.Initial(), back.Initial())
	assert.ElementsMatch(t, lab.Final(), back.Final())
	assert.ElementsMatch(t, lab.AllTransitions(), back.AllTransitions())
}

func TestDeserializeRejectsMissingHeader(t *testing.T) {
	_, err := Deserialize("%Initial 0\n%Final 0\n", VarOrder{"x"})
	require.Error(t, err)
}

func TestDeserializeRejectsMalformedTransition(t *testing.T) {
	text := "@NFA-explicit\n%Initial 0\n%Final 0\n0 oops 1\n"
	_, err := Deserialize(text, VarOrder{"x"})
	require.Error(t, err)
}

func TestCacheRoundTrip(t *testing.T) {
	lab := buildFor(t, "E x . 4x = y")
	data := EncodeCache(lab)
	back, err := DecodeCache(data)
	require.NoError(t, err)
	assert.Equal(t, lab.Order, back.Order)
	assert.ElementsMatch(t, lab.AllTransitions(), back.AllTransitions())
}
