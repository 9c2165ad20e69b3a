package parser

// unsupportedFormats lists the information-type identifiers that neither
// spec.md nor this module implement — legacy/reserved/unused bytes with
// no documented grammar. The teacher's original map also listed ')', '<',
// '?' and 'T' here; spec.md §4.2 and §4.6 require those, so they were
// moved out and given real sub-decoders. '[' stays unsupported.
var unsupportedFormats = map[string]string{
	"#":  "raw weather report",
	"%":  "agrelo",
	"&":  "reserved",
	"(":  "unused",
	"*":  "complete weather report",
	"+":  "reserved",
	"-":  "unused",
	".":  "reserved",
	"[":  "maidenhead locator beacon",
	"\\": "unused",
	"]":  "unused",
	"^":  "unused",
}

// Sentinel values for absent numeric fields — outside every field's
// legal range per §6 of spec.md.
const (
	UnknownFloat = -999999.0
	UnknownInt   = -1
)

// directivityNames maps the PHG directivity digit 0-8 to its compass
// label, per §4.2's data-extension probe.
var directivityNames = [9]string{
	"omni", "NE", "E", "SE", "S", "SW", "W", "NW", "N",
}

// ctcssTones are the 50 standard CTCSS tone frequencies in Hz,
// per §4.4 rule 3 / §6's CTCSS table (67.0 Hz .. 254.1 Hz).
var ctcssTones = []float64{
	67.0, 69.3, 71.9, 74.4, 77.0, 79.7, 82.5, 85.4, 88.5, 91.5,
	94.8, 97.4, 100.0, 103.5, 107.2, 110.9, 114.8, 118.8, 123.0, 127.3,
	131.8, 136.5, 141.3, 146.2, 151.4, 156.7, 159.8, 162.2, 165.5, 167.9,
	171.3, 173.8, 177.3, 179.9, 183.5, 186.2, 189.9, 192.8, 196.6, 199.5,
	203.5, 206.5, 210.7, 218.1, 225.7, 229.1, 233.6, 241.8, 250.3, 254.1,
}

// amateurFrequencyBands lists the APRS-relevant 2m/1.25m/70cm/33cm band
// edges (MHz), used by the non-standard-frequency suggestion scan (§4.4
// rule 10) and the object-name-as-frequency heuristic (§4.4 rule 2).
var amateurFrequencyBands = [][2]float64{
	{144, 148},
	{222, 225},
	{420, 450},
	{902, 928},
}

// freqBandPrefix maps the leading letter of a standard-frequency token
// (§4.4 rule 1) to its base MHz offset.
var freqBandPrefix = map[byte]float64{
	'A': 1200, 'B': 2300, 'C': 2400, 'D': 3300, 'E': 5600, 'F': 5700,
	'G': 5800, 'H': 10100, 'I': 10200, 'J': 10300, 'K': 10400, 'L': 10500,
	'M': 24000, 'N': 24100, 'O': 24200,
}
