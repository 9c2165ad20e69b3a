package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kc2g-aprs/tncd"
	"github.com/lestrrat-go/strftime"
)

// Decode parses a raw APRS packet (source>dest,path:information-field)
// into a Parsed record. It is the C8 dispatcher's entry point. Decode
// never fails on a malformed information field — it only returns an
// error for the four conditions that leave nothing to decode at all: an
// empty packet, a missing head/body separator, an empty head or body, or
// an invalid header.
func Decode(packet string, options ...Option) (Parsed, error) {
	p := newParsed(packet, options)

	if packet == "" {
		return *p, errors.New("packet is empty")
	}

	trimmed := strings.Trim(packet, "\r\n")

	head, body, ok := SplitOnce(trimmed, ":")
	if !ok {
		return *p, errors.New("packet has no body")
	}

	if StringLen(head) == 0 || StringLen(body) == 0 {
		return *p, errors.New("packet head or body is empty")
	}

	if err := p.parseHeader(head); err != nil {
		return *p, err
	}

	if err := p.parseBody(body); err != nil {
		return *p, err
	}

	p.applyDefaults()

	return *p, nil
}

// Parse is kept as an alias for Decode for callers coming from the
// teacher's original naming.
func Parse(packet string, options ...Option) (Parsed, error) {
	return Decode(packet, options...)
}

// applyDefaults runs the C8 dispatcher's final step: fill a missing
// symbol with the primary-table default ('/' table, space code), then
// classify the destination against the TOCALL table. No symbol is
// derived from the source or destination callsign.
func (p *Parsed) applyDefaults() {
	if p.SymbolTable == "" {
		p.SymbolTable = "/"
	}
	if p.SymbolCode == "" {
		p.SymbolCode = " "
	}

	if p.tocalls != nil && p.Mfr == "" {
		p.Mfr = p.tocalls.Classify(p.To)
	}
}

// parseTimeStamp decodes the three timestamp shapes of §4.1: DHM
// (ddhhmmz|/, replacing day/hour/minute of the current UTC clock), HMS
// (hhmmssh, replacing only the time of day), and the unimplemented
// 8-byte MDHM form (left as a format-only field, per §4.1 "not
// implemented"). It reproduces the inherited month-boundary deficiency
// unless WithTimeRollover was supplied.
func (p *Parsed) parseTimeStamp(packetType string, body string) (string, error) {
	if len(body) < 7 {
		return "", errors.New("invalid timestamp format")
	}

	matches := aprsutils.CompiledRegexps.Get(`^((\d{6})(.))$`).FindStringSubmatch(body[0:7])
	if matches == nil || len(matches) < 4 {
		return "", errors.New("invalid timestamp format")
	}

	rawts, ts, form := matches[1], matches[2], matches[3]
	utc := time.Now().UTC()
	timestamp := 0

	if !(packetType == ">" && form != "z") {
		body = string([]rune(body)[7:])

		var timeStr string
		var err error

		switch form {
		case "h":
			timeStr = fmt.Sprintf("%d%02d%02d%s", utc.Year(), utc.Month(), utc.Day(), ts)
			timestamp, err = parseTimeString(timeStr, "20060102150405")
		case "z", "/":
			timeStr = fmt.Sprintf("%d%02d%s%02d", utc.Year(), utc.Month(), ts, 0)
			timestamp, err = parseTimeString(timeStr, "20060102150405")
		default:
			timestamp = 0
		}

		if err != nil {
			timestamp = 0
		}

		if p.opts.timeRollover && timestamp != 0 {
			decoded := time.Unix(int64(timestamp), 0).UTC()
			if decoded.Sub(utc) > time.Hour {
				timestamp = int(decoded.AddDate(0, 0, -1).Unix())
			}
		}
	}

	p.RawTimestamp = rawts
	p.Timestamp = timestamp

	return body, nil
}

func parseTimeString(timeStr, layout string) (int, error) {
	t, err := time.Parse(layout, timeStr)
	if err != nil {
		return 0, err
	}
	return int(t.Unix()), nil
}

// TimestampHuman renders the decoded timestamp for diagnostics, using
// strftime so the output matches %c-style conventions an operator
// reading a log would expect rather than Go's reference-time layout.
func (p *Parsed) TimestampHuman() string {
	if p.Timestamp == 0 {
		return ""
	}
	f, err := strftime.New("%Y-%m-%d %H:%M:%S UTC")
	if err != nil {
		return ""
	}
	return f.FormatString(time.Unix(int64(p.Timestamp), 0).UTC())
}
