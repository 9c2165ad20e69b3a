package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kc2g-aprs/tncd"
)

// parseHeader parses the source>dest,path header. Address field parsing
// is otherwise an out-of-scope external collaborator (§1) — this much is
// kept only because the header/body split isn't handed to us pre-done.
func (p *Parsed) parseHeader(head string) error {
	fromCall, path, ok := SplitOnce(head, ">")
	if !ok {
		return errors.New("invalid packet header")
	}

	if !(1 <= StringLen(fromCall) && StringLen(fromCall) <= 9) ||
		!aprsutils.CompiledRegexps.Get(`(?i)^[a-z0-9]{0,9}(-[a-z0-9]{1,8})?$`).MatchString(fromCall) {
		return errors.New("fromCallsign is invalid")
	}

	paths := strings.Split(path, ",")
	if len(paths) < 1 {
		return errors.New("no toCallsign in header")
	}

	if StringLen(paths[0]) == 0 {
		return errors.New("no toCallsign in header")
	}

	toCall := paths[0]
	paths = paths[1:]

	if !aprsutils.ValidateCallsign(toCall) {
		return errors.New("invalid toCallsign in header")
	}

	i := 0
	for _, pa := range paths {
		if strings.TrimSpace(pa) != "" {
			paths[i] = pa
			i++
		}
	}
	paths = paths[:i]

	for _, pa := range paths {
		if !aprsutils.CompiledRegexps.Get(`(?i)^[A-Z0-9\-]{1,9}\*?$`).MatchString(pa) {
			return errors.New("invalid callsign in path")
		}
	}

	p.From = fromCall
	p.To = toCall
	p.Path = paths

	return nil
}

// parseBody is the C8 dispatcher: it switches on the DTI (first byte of
// the information field) and hands off to the matching sub-decoder (C4
// or C5), per the table in §4.2. Every sub-decoder failure is folded
// back into a diagnostic here rather than propagated — per §7, a
// malformed information field downgrades to UNKNOWN fields plus a
// diagnostic. The one error parseBody returns is for an information
// field with nothing after its DTI byte (other than a '>' status).
func (p *Parsed) parseBody(body string) error {
	packetType := string([]rune(body)[0:1])
	body = string([]rune(body)[1:])

	if StringLen(body) == 0 && packetType != ">" {
		return errors.New("packet body is empty after packet type character")
	}

	if reason, ok := unsupportedFormats[packetType]; ok {
		p.diagf(SeverityWarning, fmt.Sprintf("unsupported information type %q (%s)", packetType, reason))
		p.parseInvalid(body)
		return nil
	}

	switch packetType {
	case "}":
		if err := p.parseThirdParty(body); err != nil {
			p.diagf(SeverityError, "third-party payload: "+err.Error())
			p.parseInvalid(body)
		}
	case ",":
		p.parseInvalid(body)
	case "{":
		p.parseUserDefined(body)
	case ">":
		p.parseStatus(body)
	case "`", "'":
		if _, err := p.parseMicE(p.To, body); err != nil {
			p.diagf(SeverityError, "mic-e: "+err.Error())
			p.parseInvalid(body)
		}
	case ":":
		p.parseMessage(body)
	case "_":
		if _, err := p.parsePositionlessWeather(body); err != nil {
			p.diagf(SeverityError, "positionless weather: "+err.Error())
			p.parseInvalid(body)
		}
	case "!", "=", "/", "@", ";":
		if packetType == "!" && strings.HasPrefix(body, "!") {
			// "!!" is a Peet Bros Ultimeter logging-mode line, not a
			// position; only the format label and raw text are kept.
			p.Format = "ultimeter"
			p.Body = body
			break
		}
		if err := p.parsePosition(packetType, body); err != nil {
			p.diagf(SeverityError, "position: "+err.Error())
			p.parseInvalid(body)
		}
	case ")":
		if err := p.parseItem(body); err != nil {
			p.diagf(SeverityError, "item: "+err.Error())
			p.parseInvalid(body)
		}
	case "<":
		p.Format = "station-capabilities"
		p.Comment = strings.Trim(body, " ")
	case "?":
		p.parseGeneralQuery(body)
	case "T":
		if err := p.parseTelemetryReport(body); err != nil {
			p.diagf(SeverityError, "telemetry: "+err.Error())
			p.parseInvalid(body)
		}
	case "$":
		p.parseRawGPS(body)
	default:
		if pos := strings.Index(body, "!"); pos >= 0 && pos < 40 {
			if err := p.parsePosition(packetType, body); err != nil {
				p.diagf(SeverityError, "position: "+err.Error())
				p.parseInvalid(body)
			}
		} else {
			p.diagf(SeverityWarning, fmt.Sprintf("unrecognized information type %q", packetType))
			p.parseInvalid(body)
		}
	}

	return nil
}
