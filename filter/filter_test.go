package filter_test

import (
	"testing"

	"github.com/kc2g-aprs/tncd/filter"
	"github.com/kc2g-aprs/tncd/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type fakeHandle struct {
	addrs []string
	used  []bool
}

func (h *fakeHandle) NumAddresses() int   { return len(h.addrs) }
func (h *fakeHandle) Address(i int) string { return h.addrs[i] }
func (h *fakeHandle) HasBeenUsed(i int) bool {
	return h.used[i]
}
func (h *fakeHandle) HeardIndex() int { return 0 }

func samplePacket() *parser.Parsed {
	return &parser.Parsed{
		From:        "N0CALL",
		To:          "APRS",
		Format:      "uncompressed",
		Lat:         42.0,
		Lon:         -71.0,
		SymbolTable: "/",
		SymbolCode:  ">",
	}
}

func TestEvaluateSourceCallsign(t *testing.T) {
	p := samplePacket()
	n, err := filter.Evaluate(1, 2, "b/N0CALL", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = filter.Evaluate(1, 2, "b/N1CALL", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEvaluatePrefixWildcard(t *testing.T) {
	p := samplePacket()
	n, err := filter.Evaluate(1, 2, "b/N0*", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEvaluateAndOr(t *testing.T) {
	p := samplePacket()

	n, err := filter.Evaluate(1, 2, "b/N0CALL & u/APRS", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = filter.Evaluate(1, 2, "b/NOPE & u/APRS", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = filter.Evaluate(1, 2, "b/NOPE | u/APRS", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEvaluateNegationAndGrouping(t *testing.T) {
	p := samplePacket()

	n, err := filter.Evaluate(1, 2, "!b/NOPE", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = filter.Evaluate(1, 2, "!(b/NOPE | b/N0CALL)", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEvaluateTypeFilter(t *testing.T) {
	p := samplePacket()
	n, err := filter.Evaluate(1, 2, "t/p", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = filter.Evaluate(1, 2, "t/m", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEvaluateRangeFilter(t *testing.T) {
	p := samplePacket()
	n, err := filter.Evaluate(1, 2, "r/42.0/-71.0/50", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = filter.Evaluate(1, 2, "r/10.0/10.0/1", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEvaluateRangeFilterUnknownPosition(t *testing.T) {
	p := samplePacket()
	p.Lat = parser.UnknownFloat
	p.Lon = parser.UnknownFloat
	n, err := filter.Evaluate(1, 2, "r/42.0/-71.0/50", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEvaluateSymbolFilter(t *testing.T) {
	p := samplePacket()
	n, err := filter.Evaluate(1, 2, "s/>//", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = filter.Evaluate(1, 2, "s/#//", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEvaluateDigipeaterFilter(t *testing.T) {
	p := samplePacket()
	h := &fakeHandle{
		addrs: []string{"N0CALL", "APRS", "WIDE1-1", "WIDE2-1"},
		used:  []bool{false, false, true, false},
	}

	n, err := filter.Evaluate(1, 2, "d/WIDE1-1*", p, h)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = filter.Evaluate(1, 2, "v/WIDE2*", p, h)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = filter.Evaluate(1, 2, "v/WIDE1*", p, h)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEvaluateEmptyFilterErrors(t *testing.T) {
	p := samplePacket()
	n, err := filter.Evaluate(1, 2, "", p, nil)
	require.Error(t, err)
	assert.Equal(t, -1, n)
}

func TestEvaluateUnknownTypeLetterErrors(t *testing.T) {
	p := samplePacket()
	n, err := filter.Evaluate(1, 2, "z/foo", p, nil)
	require.Error(t, err)
	assert.Equal(t, -1, n)
}

func TestSyntaxErrorFormat(t *testing.T) {
	p := samplePacket()
	_, err := filter.Evaluate(3, filter.MaxChans, "b/N0CALL &", p, nil)
	require.Error(t, err)
	se, ok := err.(*filter.SyntaxError)
	require.True(t, ok)
	assert.Contains(t, se.Error(), "[3->IGate]")
	assert.Contains(t, se.Error(), "b/N0CALL &")
}

func TestEvaluateConstants(t *testing.T) {
	p := samplePacket()
	n, err := filter.Evaluate(1, 2, "0", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = filter.Evaluate(1, 2, "1", p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestOrDistributesAcrossEval checks eval("F1 | F2") == eval(F1) | eval(F2).
func TestOrDistributesAcrossEval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		callsigns := []string{"N0CALL", "WB2OSZ", "KC2GTR", "NOPE1", "NOPE2"}
		f1 := "b/" + rapid.SampledFrom(callsigns).Draw(t, "f1")
		f2 := "b/" + rapid.SampledFrom(callsigns).Draw(t, "f2")

		p := samplePacket()
		combined, err := filter.Evaluate(1, 2, f1+" | "+f2, p, nil)
		require.NoError(t, err)

		e1, err := filter.Evaluate(1, 2, f1, p, nil)
		require.NoError(t, err)
		e2, err := filter.Evaluate(1, 2, f2, p, nil)
		require.NoError(t, err)

		want := 0
		if e1 == 1 || e2 == 1 {
			want = 1
		}
		assert.Equal(t, want, combined)
	})
}

// TestDoubleNegationIsIdentity checks eval("!!F") == eval(F).
func TestDoubleNegationIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		callsigns := []string{"N0CALL", "WB2OSZ", "KC2GTR", "NOPE1", "NOPE2"}
		f := "b/" + rapid.SampledFrom(callsigns).Draw(t, "f")

		p := samplePacket()
		plain, err := filter.Evaluate(1, 2, f, p, nil)
		require.NoError(t, err)

		doubled, err := filter.Evaluate(1, 2, "!!"+f, p, nil)
		require.NoError(t, err)

		assert.Equal(t, plain, doubled)
	})
}
