package parser

import (
	"strconv"
	"strings"

	"github.com/kc2g-aprs/tncd"
)

// parseInvalid records a body this module couldn't make sense of. It
// never aborts the overall decode (§7) — it just leaves Format/Body as
// the only evidence of what was received.
func (p *Parsed) parseInvalid(body string) string {
	p.Format = "invalid"
	p.Body = body
	return body
}

// parseUserDefined decodes the '{' DTI: a one-byte user ID, a one-byte
// subtype, and opaque data. Two subtype pairs are reserved by the
// original spec and given their own msg_type here: "tt" for APRStt
// touch-tone data and "mc" for Morse code data; anything else is left
// as generic user-defined.
func (p *Parsed) parseUserDefined(body string) string {
	p.Format = "user-defined"

	runes := []rune(body)
	if len(runes) < 2 {
		p.Body = body
		return body
	}

	id := string(runes[0])
	subtype := string(runes[1])

	p.ID = id
	p.Type = subtype
	p.Body = string(runes[2:])

	switch id + subtype {
	case "tt":
		p.Format = "touch-tone"
	case "mc":
		p.Format = "morse-code"
	}

	return body
}

// parseStatus decodes the '>' status report DTI (§4.6), which carries
// one of three shapes: a DHM timestamp followed by free text, a
// Maidenhead locator plus symbol followed by free text, or bare free
// text. A trailing "^hp" beam-heading/ERP suffix is recognized and
// stripped from whichever text remains: h is a digit (heading 10°·h) or
// an upper-case letter (heading 10°·(h-'A')+100), p a digit (ERP p²·10 W).
func (p *Parsed) parseStatus(body string) string {
	p.Format = "status"

	text := body

	if rest, err := p.parseTimeStamp(">", body); err == nil && p.Timestamp != 0 {
		text = rest
	} else if m := aprsutils.CompiledRegexps.Get(`^([A-Ra-r]{2}\d{2}[A-Xa-x]{2})([\x21-\x7e])([\x21-\x7e])(.*)$`).FindStringSubmatch(body); m != nil {
		p.Maidenhead = m[1]
		p.SymbolTable = m[2]
		p.SymbolCode = m[3]
		text = m[4]
	}

	trimmed := strings.TrimRight(text, " ")
	if m := aprsutils.CompiledRegexps.Get(`^(.*)\^([0-9A-Z])([0-9])$`).FindStringSubmatch(trimmed); m != nil {
		if h, err := strconv.Atoi(m[2]); err == nil {
			p.BeamHeadingDeg = float64(h * 10)
		} else {
			p.BeamHeadingDeg = float64(int(m[2][0]-'A')*10 + 100)
		}
		erp, _ := strconv.Atoi(m[3])
		p.ERPWatts = float64(erp * erp * 10)
		text = m[1]
	}

	p.Status = strings.Trim(text, " ")
	return body
}
