package aprsutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestToDecimalKnownValues(t *testing.T) {
	encoded, err := FromDecimal(20542, 3)
	require.NoError(t, err)

	n, err := ToDecimal(encoded)
	require.NoError(t, err)
	assert.Equal(t, 20542, n)
}

func TestToDecimalEmpty(t *testing.T) {
	n, err := ToDecimal("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestToDecimalRejectsOutOfRange(t *testing.T) {
	_, err := ToDecimal(string(rune(0x7c)))
	assert.Error(t, err)
}

func TestFromDecimalZeroWidth(t *testing.T) {
	s, err := FromDecimal(0, 4)
	require.NoError(t, err)
	assert.Equal(t, "!!!!", s)
}

func TestFromDecimalRejectsNegative(t *testing.T) {
	_, err := FromDecimal(-1)
	assert.Error(t, err)
}

// TestBase91RoundTrip checks FromDecimal/ToDecimal agree for any value
// that fits in a 4-char base-91 field (the widest used by compressed
// position encoding).
func TestBase91RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 91*91*91*91-1).Draw(t, "n")

		encoded, err := FromDecimal(n, 4)
		require.NoError(t, err)
		require.Len(t, encoded, 4)

		decoded, err := ToDecimal(encoded)
		require.NoError(t, err)
		assert.Equal(t, n, decoded)
	})
}
