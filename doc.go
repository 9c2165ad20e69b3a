// Package aprsutils decodes APRS information fields and evaluates
// APRS-IS client filters. It does not decode AX.25 frames, modulate or
// demodulate radio signals, or maintain any session state: each packet
// is decoded independently from its TNC2-format text
// ("source>dest,path:information"), whose header Decode splits itself.
package aprsutils

// Name and Version identify this module to APRS-IS servers during login,
// the way any fullfeed/igate client must.
const (
	Name    = "tncd"
	Version = "0.1"
)
