package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestParseDAOSecondCallIsNoOp directly exercises §8 item 6 on the
// unexported parseDAO rule: once a token has been matched and stripped,
// calling parseDAO again on the result must leave the body and the
// accumulated Lat/Lon offset untouched, since there is nothing left in
// the string for the regex to match.
func TestParseDAOSecondCallIsNoOp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 9).Draw(t, "a")
		o := rapid.IntRange(0, 9).Draw(t, "o")

		p := newParsed("test", nil)
		p.Lat = 42.0
		p.Lon = -71.0

		body := fmt.Sprintf("text !W%d%d! more text", a, o)

		first := p.parseDAO(body)
		require.NotContains(t, first, "!W")

		latAfterFirst, lonAfterFirst := p.Lat, p.Lon

		second := p.parseDAO(first)
		assert.Equal(t, first, second)
		assert.Equal(t, latAfterFirst, p.Lat)
		assert.Equal(t, lonAfterFirst, p.Lon)
	})
}
