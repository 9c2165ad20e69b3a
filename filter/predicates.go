package filter

import (
	"strconv"
	"strings"

	"github.com/kc2g-aprs/tncd"
	"github.com/kc2g-aprs/tncd/parser"
)

// evalContext bundles the decoded record and the packet handle a leaf
// predicate needs (§3's "filter evaluator state": the decoded record,
// the source packet handle, for digipeater-path queries).
type evalContext struct {
	p      *parser.Parsed
	handle PacketHandle
}

func matchCallsignWildcard(call, pattern string) bool {
	if pattern == "" {
		return false
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(strings.ToUpper(call), strings.ToUpper(strings.TrimSuffix(pattern, "*")))
	}
	return strings.EqualFold(call, pattern)
}

func anyMatch(call string, fields []string) bool {
	for _, f := range fields {
		if matchCallsignWildcard(call, f) {
			return true
		}
	}
	return false
}

// evalSpec decodes and evaluates one FILTER_SPEC token (§4.8's leaf
// specs table). The separator character is whatever immediately
// follows the type letter, so "b/N0CALL" and "b#N0CALL" are equivalent.
func (ctx *evalContext) evalSpec(spec string, pos int) (bool, error) {
	if spec == "" {
		return false, &specError{pos, "empty filter spec"}
	}

	switch spec[0] {
	case '0':
		return false, nil
	case '1':
		return true, nil
	}

	if len(spec) < 2 {
		return false, &specError{pos, "missing separator for type '" + string(spec[0]) + "'"}
	}

	sep := string(spec[1])
	fieldsStr := spec[2:]
	var fields []string
	if fieldsStr != "" {
		fields = strings.Split(fieldsStr, sep)
	}

	switch spec[0] {
	case 'b':
		return anyMatch(ctx.p.From, fields), nil
	case 'o':
		return ctx.p.ObjectName != "" && anyMatch(ctx.p.ObjectName, fields), nil
	case 'd':
		return ctx.evalDigi(fields, true), nil
	case 'v':
		return ctx.evalDigi(fields, false), nil
	case 'g':
		return ctx.evalAddressee(fields), nil
	case 'u':
		return ctx.evalUnproto(fields), nil
	case 't':
		return ctx.evalType(fieldsStr), nil
	case 'r':
		return ctx.evalRange(fields, pos)
	case 's':
		return ctx.evalSymbol(fields), nil
	default:
		return false, &specError{pos, "unknown filter type '" + string(spec[0]) + "'"}
	}
}

// evalDigi implements the 'd'/'v' predicates: any digipeater address
// (everything past source+destination) whose has-been-used bit matches
// `used`. A call list further restricts which digipeater callsigns
// count; an empty list matches on the used-bit alone.
func (ctx *evalContext) evalDigi(fields []string, used bool) bool {
	if ctx.handle == nil {
		return false
	}
	n := ctx.handle.NumAddresses()
	for i := 2; i < n; i++ {
		if ctx.handle.HasBeenUsed(i) != used {
			continue
		}
		if len(fields) == 0 {
			return true
		}
		if anyMatch(ctx.handle.Address(i), fields) {
			return true
		}
	}
	return false
}

// evalAddressee implements 'g': only ':' DTI packets carry an
// addressee.
func (ctx *evalContext) evalAddressee(fields []string) bool {
	if ctx.p.Addressee == "" {
		return false
	}
	return anyMatch(ctx.p.Addressee, fields)
}

// evalUnproto implements 'u': the destination address, except Mic-E
// packets don't carry a meaningful destination callsign (it encodes
// position, not an unproto address).
func (ctx *evalContext) evalUnproto(fields []string) bool {
	if ctx.p.Format == "mic-e" {
		return false
	}
	return anyMatch(ctx.p.To, fields)
}

// evalType implements 't': LETTERS is a run of single-character type
// codes, any one of which matching passes the predicate.
func (ctx *evalContext) evalType(letters string) bool {
	for _, l := range letters {
		if ctx.matchesType(byte(l)) {
			return true
		}
	}
	return false
}

func (ctx *evalContext) matchesType(letter byte) bool {
	p := ctx.p
	switch letter {
	case 'p':
		return p.Format == "uncompressed" || p.Format == "compressed" || p.Format == "mic-e"
	case 'o':
		return p.Format == "object"
	case 'i':
		return p.Format == "item"
	case 'm':
		return p.Format == "message"
	case 'q':
		return p.Format == "general-query" || p.Format == "directed-station-query"
	case 's':
		return p.Format == "status"
	case 't':
		return p.Format == "telemetry" || p.Format == "telemetry-message"
	case 'u':
		return p.Format == "user-defined" || p.Format == "touch-tone" || p.Format == "morse-code"
	case 'w':
		return len(p.Weather) > 0 || p.Format == "weather" || p.Type == "ULTW"
	case 'n':
		return ctx.matchesNWS()
	}
	return false
}

// matchesNWS implements the 'n' type: a source exactly six upper-case
// letters, addressed to (or objectifying) a National Weather Service
// station.
func (ctx *evalContext) matchesNWS() bool {
	p := ctx.p
	src := p.From
	if len(src) != 6 {
		return false
	}
	for _, c := range src {
		if c < 'A' || c > 'Z' {
			return false
		}
	}

	if p.Addressee != "" {
		for _, prefix := range []string{"NWS", "SKY", "BOM"} {
			if strings.HasPrefix(p.Addressee, prefix) {
				return true
			}
		}
	}

	if len(p.ObjectName) >= 3 && p.ObjectName[:3] == src[:3] {
		return true
	}

	return false
}

// evalRange implements 'r': the WGS-84 ellipsoidal (Vincenty) distance
// in km from the given point to the packet's decoded position, computed
// by aprsutils.CalculateDistance in distance.go.
func (ctx *evalContext) evalRange(fields []string, pos int) (bool, error) {
	if len(fields) < 3 {
		return false, &specError{pos, "r filter requires lat/lon/km"}
	}
	lat, err1 := strconv.ParseFloat(fields[0], 64)
	lon, err2 := strconv.ParseFloat(fields[1], 64)
	km, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return false, &specError{pos, "r filter requires numeric lat/lon/km"}
	}

	if ctx.p.Lat == parser.UnknownFloat || ctx.p.Lon == parser.UnknownFloat {
		return false, nil
	}

	dist := aprsutils.CalculateDistance(lat, lon, ctx.p.Lat, ctx.p.Lon)
	return dist <= km, nil
}

// evalSymbol implements 's': pri chars match against the primary
// symbol table ('/'), alt chars against the alternate table ('\'), and
// over chars match an overlay character (any symbol table byte other
// than '/' or '\').
func (ctx *evalContext) evalSymbol(fields []string) bool {
	p := ctx.p
	if p.SymbolTable == "" || p.SymbolCode == "" {
		return false
	}

	if len(fields) > 0 && fields[0] != "" && p.SymbolTable == "/" && strings.Contains(fields[0], p.SymbolCode) {
		return true
	}
	if len(fields) > 1 && fields[1] != "" && p.SymbolTable == "\\" && strings.Contains(fields[1], p.SymbolCode) {
		return true
	}
	if len(fields) > 2 && fields[2] != "" && p.SymbolTable != "/" && p.SymbolTable != "\\" &&
		strings.Contains(fields[2], p.SymbolTable) {
		return true
	}

	return false
}
