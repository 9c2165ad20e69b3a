package parser_test

import (
	"testing"

	"github.com/kc2g-aprs/tncd/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePositionWithPHG(t *testing.T) {
	p, err := parser.Decode("N0CALL>APRS:!4237.14NS07120.83W#PHG7140Chelmsford MA")
	require.NoError(t, err)

	assert.InDelta(t, 42.6190, p.Lat, 0.001)
	assert.InDelta(t, -71.3472, p.Lon, 0.001)
	assert.Equal(t, "S", p.SymbolTable)
	assert.Equal(t, "#", p.SymbolCode)
	assert.InDelta(t, 49, p.PHGPower, 0.5)
	assert.InDelta(t, 20, p.PHGHeight, 0.5)
	assert.InDelta(t, 4, p.PHGGain, 0.5)
	assert.Equal(t, "omni", p.PHGDir)
	assert.Equal(t, "Chelmsford MA", p.Comment)
}

func TestDecodePositionWithTimestamp(t *testing.T) {
	p, err := parser.Decode("N0CALL>APRS:@092345z4903.50N/07201.75W>Test1234")
	require.NoError(t, err)

	assert.Contains(t, p.Format, "uncompressed")
	assert.InDelta(t, 49.0583, p.Lat, 0.001)
	assert.InDelta(t, -72.0292, p.Lon, 0.001)
	assert.Equal(t, "Test1234", p.Comment)
}

func TestDecodeCompressedPosition(t *testing.T) {
	p, err := parser.Decode(`N0CALL>APRS:=/5L!!<*e7_7P[`)
	require.NoError(t, err)

	assert.Equal(t, "compressed", p.Format)
	assert.InDelta(t, 49.5, p.Lat, 0.1)
	assert.InDelta(t, -72.75, p.Lon, 0.1)
}

func TestDecodeMicE(t *testing.T) {
	p, err := parser.Decode("N0CALL>T2SP0W:`c_Vm6hk/>\"49}TH-D7A walkie Talkie")
	require.NoError(t, err)

	assert.Equal(t, "mic-e", p.Format)
	assert.InDelta(t, -33.4271, p.Lat, 0.05)
}

func TestDecodeDirectedStationQuery(t *testing.T) {
	p, err := parser.Decode("N0CALL>APRS::WB2OSZ   :?APRSD")
	require.NoError(t, err)

	assert.Equal(t, "directed-station-query", p.Format)
	assert.Equal(t, "WB2OSZ", p.Addressee)
	assert.Equal(t, "APRSD", p.QueryType)
}

func TestDecodePositionlessWeather(t *testing.T) {
	p, err := parser.Decode("N0CALL>APRS:_10090556c220s004g005t077r000p000P000h50b09900wRSW")
	require.NoError(t, err)

	assert.Equal(t, "weather", p.Format)
	assert.InDelta(t, 220, p.Weather["windDirection"], 0.5)
	assert.InDelta(t, 4.6, p.Weather["windSpeed"], 0.05)
	assert.InDelta(t, 5, p.Weather["windGust"], 0.5)
	assert.InDelta(t, 77, p.Weather["temperature"], 0.5)
	assert.InDelta(t, 50, p.Weather["humidity"], 0.5)
	assert.InDelta(t, 29.23, p.Weather["barometer"], 0.01)
	assert.Contains(t, p.Comment, "wRSW")
}

func TestDecodeEmptyPacket(t *testing.T) {
	_, err := parser.Decode("")
	assert.Error(t, err)
}

func TestDecodeQuietSuppressesDiagnostics(t *testing.T) {
	sink := parser.NewCollectingSink()
	_, err := parser.Decode("N0CALL>APRS:!7237.14ns07120.83W#", parser.WithDiagSink(sink), parser.WithQuiet())
	require.NoError(t, err)
	assert.Empty(t, sink.Diagnostics)
}
