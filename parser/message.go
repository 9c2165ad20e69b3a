package parser

import (
	"strings"

	"github.com/kc2g-aprs/tncd"
)

// parseMessage decodes the ':' DTI (§4.6): bulletins, announcements,
// directed station queries, ack/rej replies, and ordinary addressed
// messages with either the old or new (reply-ack) message-number
// convention.
func (p *Parsed) parseMessage(body string) string {
	for {
		re1 := aprsutils.CompiledRegexps.Get(`(?i)^BLN([0-9])([a-z0-9_ \-]{5}):(.{0,67})`)
		matches1 := re1.FindStringSubmatch(body)
		if matches1 != nil && len(matches1) >= 4 {
			bid, identifier, text := matches1[1], matches1[2], matches1[3]
			identifier = strings.TrimRight(identifier, " ")

			mformat := "bulletin"
			if identifier != "" {
				mformat = "group-bulletin"
			}

			p.Format = mformat
			p.MessageText = strings.Trim(text, " ")
			p.BID = bid
			p.Identifier = identifier
			break
		}

		re2 := aprsutils.CompiledRegexps.Get(`^BLN([A-Z])([a-zA-Z0-9_ \-]{5}):(.{0,67})`)
		matches2 := re2.FindStringSubmatch(body)
		if matches2 != nil && len(matches2) >= 4 {
			aid, identifier, text := matches2[1], matches2[2], matches2[3]
			identifier = strings.TrimRight(identifier, " ")

			p.Format = "announcement"
			p.MessageText = strings.Trim(text, " ")
			p.AID = aid
			p.Identifier = identifier
			break
		}

		re3 := aprsutils.CompiledRegexps.Get(`^([a-zA-Z0-9_ \-]{9}):(.*)$`)
		matches3 := re3.FindStringSubmatch(body)
		if matches3 == nil || len(matches3) < 3 {
			break
		}

		addressee, remainingBody := matches3[1], matches3[2]
		p.Addressee = strings.TrimRight(addressee, " ")
		body = remainingBody

		// Directed station query: ":ADDRESSEE:?QUERYTYPE", e.g. "?APRSD".
		// aprs101.pdf never nails down where QUERYTYPE ends and an
		// optional trailing callsign argument begins; we take the fixed
		// 5-character reading every known query type (APRSD, APRSP,
		// APRSS, APRST, ...) satisfies.
		// TODO: a query type shorter than 5 chars with a follow-on
		// argument (e.g. "?PING?") would misparse; revisit if one shows
		// up in the wild.
		if strings.HasPrefix(body, "?") {
			rest := body[1:]
			p.Format = "directed-station-query"
			if len(rest) >= 5 {
				p.QueryType = rest[:5]
				p.QueryCallsign = strings.TrimPrefix(rest[5:], " ")
			} else {
				p.QueryType = rest
			}
			break
		}

		remainingBody, _ = p.parseTelemetryConfig(body)

		if p.Format == "telemetry-message" {
			break
		}

		p.Format = "message"

		// APRS supports two message-number conventions: the original
		// aprs101.pdf format (a bare 1-5 char number), and the 1999
		// reply-ack addendum (a 2-char number, with or without a
		// trailing free ack number).

		// New reply-ack form on an ack/rej: ":AAAABBBBC:ackMM}AA"
		re4 := aprsutils.CompiledRegexps.Get(`^(ack|rej)([A-Za-z0-9]{2})}([A-Za-z0-9]{2})?$`)
		matches4 := re4.FindStringSubmatch(body)
		if matches4 != nil && len(matches4) >= 3 {
			p.Response = matches4[1]
			p.MsgNo = matches4[2]
			if len(matches4) >= 4 && matches4[3] != "" {
				p.AckMsgNo = matches4[3]
			}
			break
		}

		// Old ack/rej form: ":AAAABBBBC:ack12345"
		re5 := aprsutils.CompiledRegexps.Get(`^(ack|rej)([A-Za-z0-9]{1,5})$`)
		matches5 := re5.FindStringSubmatch(body)
		if matches5 != nil && len(matches5) >= 3 {
			p.Response = matches5[1]
			p.MsgNo = matches5[2]
			break
		}

		p.MessageText = strings.Trim(body, " ")

		// New reply-ack form on a regular message: "...text{MM}AA"
		re6 := aprsutils.CompiledRegexps.Get(`{([A-Za-z0-9]{2})}([A-Za-z0-9]{2})?$`)
		matches6 := re6.FindStringSubmatch(body)
		if matches6 != nil && len(matches6) >= 2 {
			msgNo := matches6[1]
			ackMsgNo := ""
			if len(matches6) >= 3 {
				ackMsgNo = matches6[2]
			}

			removeLen := 4 + len(ackMsgNo) // {MM} + AA
			if len(body) >= removeLen {
				p.MessageText = strings.Trim(body[:len(body)-removeLen], " ")
			}
			p.MsgNo = msgNo
			if ackMsgNo != "" {
				p.AckMsgNo = ackMsgNo
			}
			break
		}

		// Old message-number form: "...text{MM"
		re7 := aprsutils.CompiledRegexps.Get(`{([A-Za-z0-9]{1,5})$`)
		matches7 := re7.FindStringSubmatch(body)
		if matches7 != nil && len(matches7) >= 2 {
			msgNo := matches7[1]
			removeLen := 1 + len(msgNo) // { + msgNo
			if len(body) >= removeLen {
				p.MessageText = strings.Trim(body[:len(body)-removeLen], " ")
			}
			p.MsgNo = msgNo
			break
		}

		break
	}

	return ""
}
