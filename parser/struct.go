package parser

import (
	"github.com/kc2g-aprs/tncd"
)

// TelemetryData is the decoded form of a base-91 compressed telemetry
// token or a "T#seq,v1,..." report (§4.6/C7).
type TelemetryData struct {
	Seq  int
	Vals []int
	Bits string
}

// Parsed is the decoded record (§3 of spec.md). Every field is optional
// except Format (the "msg_type" human label) and From (the source
// callsign) — both are always set by Decode before any sub-decoder runs.
// It is populated by exactly one Decode call and never mutated after.
type Parsed struct {
	Raw   string
	Quiet bool

	// Header, split out of the source>dest,path text by parseHeader.
	From string
	To   string
	Path []string

	Format string // human-readable message type ("msg_type")
	Body   string

	// Position.
	Lat, Lon       float64
	Maidenhead     string
	SymbolTable    string
	SymbolCode     string
	Course         float64
	Speed          float64 // mph
	Altitude       float64 // ft
	PosAmbiguity   int
	MessageCapable bool
	GPSFixStatus   bool
	RadioRange     float64 // mi, compressed-position range byte

	// Data extensions.
	PHG       string
	PHGPower  float64 // watts
	PHGHeight float64 // feet
	PHGGain   float64 // dBi
	PHGDir    string
	PHGRange  float64 // mi
	PHGRate   int
	RNG       float64 // mi
	Bearing   int
	NRQ       int

	// Comment-embedded extensions (§4.4).
	FreqMHz      float64
	CTCSSToneHz  float64
	DCSOctal     string
	OffsetKHz    float64
	DAODatumByte string
	AprsttLoc    string
	Comment      string

	// Telemetry (§4.6/C7).
	Telemetry     TelemetryData
	TelemetryMicE []int
	TPARM         []string
	TUNIT         []string
	TEQNS         [][]float64
	TBITS         string
	Title         string

	// Weather (C3).
	Weather        map[string]float64
	WeatherSummary string

	// Message (§4.6).
	Addressee  string
	MessageText string
	MsgNo      string
	AckMsgNo   string
	Response   string
	BID        string
	AID        string
	Identifier string

	// Directed/general query (§4.6).
	QueryType          string
	QueryCallsign      string
	FootprintLat       float64
	FootprintLon       float64
	FootprintRadiusMi  float64

	// Object/item.
	ObjectName   string
	Alive        bool
	ObjectFormat string

	// Status (§4.6).
	Status         string
	BeamHeadingDeg float64
	ERPWatts       float64

	// Timestamp (C1).
	RawTimestamp string
	Timestamp    int

	// Mic-E (C5).
	MBits      string
	MType      string
	MicEStatus string
	Mfr        string

	// User-defined / touch-tone / morse.
	ID   string
	Type string

	// Third-party.
	SubPacket *Parsed

	diag    DiagSink
	tocalls *aprsutils.TOCALLTable
	opts    decodeOptions
}

type decodeOptions struct {
	timeRollover bool
}

// Option configures a Decode call.
type Option func(*Parsed)

// WithDiagSink installs a DiagSink to receive every malformed-field and
// spec-deviation diagnostic (§7). The default is NopSink.
func WithDiagSink(sink DiagSink) Option {
	return func(p *Parsed) { p.diag = sink }
}

// WithTOCALLTable installs a pre-loaded TOCALL table for destination
// classification (C6). Without one, no TOCALL lookup is made and Mfr is
// set only by Mic-E manufacturer identification.
func WithTOCALLTable(t *aprsutils.TOCALLTable) Option {
	return func(p *Parsed) { p.tocalls = t }
}

// WithQuiet suppresses diagnostics regardless of sink (§7's "quiet" flag).
func WithQuiet() Option {
	return func(p *Parsed) { p.Quiet = true }
}

// WithTimeRollover opts into the month-boundary correction discussed in
// §9: if the decoded wall-clock timestamp lands more than an hour in the
// future, treat it as belonging to the previous day. Off by default so
// the documented deficiency is reproduced unless a caller asks otherwise.
func WithTimeRollover() Option {
	return func(p *Parsed) { p.opts.timeRollover = true }
}

func newParsed(packet string, options []Option) *Parsed {
	p := &Parsed{
		Raw:          packet,
		Lat:          UnknownFloat,
		Lon:          UnknownFloat,
		Course:       UnknownFloat,
		Speed:        UnknownFloat,
		Altitude:     UnknownFloat,
		RadioRange:   UnknownFloat,
		PHGPower:     UnknownFloat,
		PHGHeight:    UnknownFloat,
		PHGGain:      UnknownFloat,
		PHGRange:     UnknownFloat,
		PHGRate:      UnknownInt,
		RNG:          UnknownFloat,
		Bearing:      UnknownInt,
		NRQ:          UnknownInt,
		FreqMHz:      UnknownFloat,
		CTCSSToneHz:  UnknownFloat,
		OffsetKHz:    UnknownFloat,
		FootprintLat: UnknownFloat,
		FootprintLon: UnknownFloat,
		FootprintRadiusMi: UnknownFloat,
		BeamHeadingDeg: UnknownFloat,
		ERPWatts:     UnknownFloat,
		SymbolTable:  "/",
		SymbolCode:   " ",
		Weather:      make(map[string]float64),
		diag:         NopSink{},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// diagf reports a diagnostic unless Quiet is set.
func (p *Parsed) diagf(severity Severity, message string) {
	if p.Quiet || p.diag == nil {
		return
	}
	p.diag.Diag(severity, message)
}
