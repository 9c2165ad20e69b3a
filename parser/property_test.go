package parser_test

import (
	"fmt"
	"testing"

	"github.com/kc2g-aprs/tncd/parser"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// micEDigitMsgChar encodes a 0-9 digit for one of the destination
// address's first three characters, which double as message-bit carriers
// per §4.3: bit 0 uses a plain digit, bit 1 (standard) shifts into the
// P-Y range, bit 2 (custom) shifts into the A-J range.
func micEDigitMsgChar(d, bit int) byte {
	switch bit {
	case 1:
		return byte('P' + d)
	case 2:
		return byte('A' + d)
	default:
		return byte('0' + d)
	}
}

// micEDigitSignChar encodes a 0-9 digit for destination address
// characters 4-6, where the representation used (plain digit vs. the
// P-Y range) simultaneously carries the N/S, longitude-offset, or E/W
// flag examined separately on the raw byte.
func micEDigitSignChar(d int, high bool) byte {
	if high {
		return byte('P' + d)
	}
	return byte('0' + d)
}

// encodeLonDegByte inverts the destination-address-offset-dependent
// longitude degree decoding of §4.3.
func encodeLonDegByte(lonDeg int) (byte, bool) {
	switch {
	case lonDeg >= 10 && lonDeg <= 99:
		return byte(lonDeg + 28), false
	case lonDeg >= 0 && lonDeg <= 9:
		return byte(118 + lonDeg), true
	case lonDeg >= 100 && lonDeg <= 109:
		return byte(8 + lonDeg), true
	default: // 110..179
		return byte(lonDeg - 72), true
	}
}

// encodeMicE builds a synthetic Mic-E destination address and
// information field encoding the given lat/lon/speed/course, for the
// round-trip property test (§8 item 3). Position ambiguity is always 0.
// offsetFlag (destination-address char 5's longitude-offset bit) is not
// a free choice: it must agree with whichever range encodeLonDegByte
// picked to represent lonDeg, since the decoder reads the +100 offset
// decision straight off that destination-address byte.
func encodeMicE(latDeg, lonDeg int, latHundredths, lonHundredths int, south, west bool, speedKnots, courseDeg int) (string, string) {
	d0, d1 := latDeg/10, latDeg%10
	mm := latHundredths / 100
	hh := latHundredths % 100
	d2, d3 := mm/10, mm%10
	d4, d5 := hh/10, hh%10

	lonDegByte, offsetFlag := encodeLonDegByte(lonDeg)

	dst := make([]byte, 6)
	dst[0] = micEDigitMsgChar(d0, 0)
	dst[1] = micEDigitMsgChar(d1, 0)
	dst[2] = micEDigitMsgChar(d2, 0)
	dst[3] = micEDigitSignChar(d3, !south)
	dst[4] = micEDigitSignChar(d4, offsetFlag)
	dst[5] = micEDigitSignChar(d5, west)

	lonMinWhole := lonHundredths / 100
	lonMinHundredths := lonHundredths % 100

	var lonMinByte byte
	if lonMinWhole >= 10 {
		lonMinByte = byte(lonMinWhole + 28)
	} else {
		lonMinByte = byte(88 + lonMinWhole)
	}
	lonHundredthsByte := byte(lonMinHundredths + 28)

	body3 := byte(speedKnots/10 + 28)
	quotient := speedKnots % 10
	cHigh := courseDeg / 100
	remainder := courseDeg % 100
	body4 := byte(quotient*10 + cHigh + 28)
	body5 := byte(remainder + 28)

	body := []byte{lonDegByte, lonMinByte, lonHundredthsByte, body3, body4, body5, '>', '/'}

	return string(dst), string(body)
}

// TestMicERoundTrip checks §8 item 3: for a range of
// (lat, lon, speed_knots, course) values with no position ambiguity and
// no manufacturer/telemetry/comment tail, decoding a synthetic Mic-E
// destination+info pair reproduces the original values within the
// format's resolution (1/6000 degree, matching the hundredths-of-a-minute
// field width).
func TestMicERoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		latDeg := rapid.IntRange(0, 89).Draw(t, "latDeg")
		latHundredths := rapid.IntRange(0, 5999).Draw(t, "latHundredths")
		south := rapid.Bool().Draw(t, "south")

		lonDeg := rapid.IntRange(0, 179).Draw(t, "lonDeg")
		lonHundredths := rapid.IntRange(0, 5999).Draw(t, "lonHundredths")
		west := rapid.Bool().Draw(t, "west")

		speedKnots := rapid.IntRange(0, 799).Draw(t, "speedKnots")
		courseDeg := rapid.IntRange(0, 359).Draw(t, "courseDeg")

		dst, body := encodeMicE(latDeg, lonDeg, latHundredths, lonHundredths, south, west, speedKnots, courseDeg)

		packet := fmt.Sprintf("N0CALL>%s:`%s", dst, body)
		p, err := parser.Decode(packet)
		require.NoError(t, err)
		require.Equal(t, "mic-e", p.Format)

		expectedLat := float64(latDeg) + float64(latHundredths)/100.0/60.0
		if south {
			expectedLat = -expectedLat
		}
		expectedLon := float64(lonDeg) + float64(lonHundredths)/100.0/60.0
		if west {
			expectedLon = -expectedLon
		}

		const resolution = 1.0 / 6000.0
		require.InDelta(t, expectedLat, p.Lat, resolution+1e-9)
		require.InDelta(t, expectedLon, p.Lon, resolution+1e-9)

		expectedSpeedMph := float64(speedKnots) * 1.15078
		require.InDelta(t, expectedSpeedMph, p.Speed, 1e-6)
		require.InDelta(t, float64(courseDeg), p.Course, 1e-6)
	})
}

// TestDAORefinementConsumedOnce checks §8 item 6 at the Decode level:
// a comment carrying exactly one !DAO! token is refined exactly once
// (the loop in parseComment keeps re-invoking every comment rule until a
// pass changes nothing, so the offset must not be re-applied just
// because the loop revisits the DAO rule after the token is already
// gone). A second, independent Decode of the already-refined comment
// (which carries no token at all) must not find anything further to
// apply.
func TestDAORefinementConsumedOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 9).Draw(t, "a")
		o := rapid.IntRange(0, 9).Draw(t, "o")

		prefix := "N0CALL>APRS:!4237.14NS07120.83W#"
		token := fmt.Sprintf("!W%d%d!", a, o)

		p1, err := parser.Decode(prefix + "Chelmsford MA " + token)
		require.NoError(t, err)

		latOffset := float64(a) * 0.001 / 60
		lonOffset := float64(o) * 0.001 / 60

		baseLat := 42.0 + 37.14/60.0
		baseLon := -(71.0 + 20.83/60.0)

		require.InDelta(t, baseLat+latOffset, p1.Lat, 1e-6)
		require.InDelta(t, baseLon-lonOffset, p1.Lon, 1e-6)
		require.NotContains(t, p1.Comment, "!W")

		// Re-decoding the refined comment (token already stripped) must
		// reproduce only the unrefined base coordinate: nothing is left
		// for a second refinement pass to consume.
		p2, err := parser.Decode(prefix + p1.Comment)
		require.NoError(t, err)

		require.InDelta(t, baseLat, p2.Lat, 1e-6)
		require.InDelta(t, baseLon, p2.Lon, 1e-6)
	})
}
