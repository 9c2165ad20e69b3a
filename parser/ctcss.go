package parser

import "math"

// nearestCTCSSTone returns the standard CTCSS tone (§4.4 rule 3, §6)
// closest to the given integer token, e.g. the comment token "T136"
// resolves to 136.5 Hz.
func nearestCTCSSTone(n int) float64 {
	best := ctcssTones[0]
	bestDiff := math.Abs(float64(n) - best)
	for _, tone := range ctcssTones[1:] {
		diff := math.Abs(float64(n) - tone)
		if diff < bestDiff {
			best = tone
			bestDiff = diff
		}
	}
	return best
}
