package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/kc2g-aprs/tncd"
)

// parseComment is the C2 comment post-processor. It runs the data
// extension probe once, the standard-frequency token once (it is
// anchored at the start of the comment per §4.4 rule 1), then repeatedly
// scans for tone/DCS/offset/range/altitude/telemetry/DAO tokens — these
// can appear in any order and even interleaved with free text — until a
// pass finds nothing new, and finally runs the non-standard
// frequency/tone suggestion scan over whatever text is left.
func (p *Parsed) parseComment(body string) string {
	body = p.parseDataExtensions(body)
	body = p.parseFrequency(body)

	for {
		before := body
		body = p.parseTone(body)
		body = p.parseDCS(body)
		body = p.parseOffset(body)
		body = p.parseRange(body)
		body = p.parseCommentAltitude(body)
		body = p.parseCommentTelemetry(body)
		body = p.parseDAO(body)
		if body == before {
			break
		}
	}

	if p.FreqMHz == UnknownFloat {
		p.applyObjectNameFrequency()
	}

	p.scanNonStandardSuggestions(body)

	if len(body) > 0 && body[0] == '/' {
		body = body[1:]
	}

	p.Comment = strings.Trim(body, " ")
	return body
}

// parseDataExtensions parses the course/speed/bearing/NRQ and PHG/RNG
// data extensions of §4.2's probe. These are fixed-position fields
// immediately following the symbol, not free-floating comment tokens,
// so they run once and only at the start of the remaining body.
func (p *Parsed) parseDataExtensions(body string) string {
	// Course/speed: "111/222text"
	re1 := aprsutils.CompiledRegexps.Get(`^([0-9 \.]{3})/([0-9 \.]{3})`)
	matches := re1.FindStringSubmatch(body)

	if matches != nil && len(matches) >= 3 {
		cse, spd := matches[1], matches[2]
		body = body[7:]

		if isDigit(cse) && cse != "000" {
			cseInt, _ := strconv.Atoi(cse)
			// "360" is the wire encoding for due north and is
			// rewritten to 0 per the course invariant; anything
			// outside 1-360 is left unset.
			switch {
			case cseInt == 360:
				p.Course = 0
			case cseInt >= 1 && cseInt <= 359:
				p.Course = float64(cseInt)
			}
		}

		if isDigit(spd) && spd != "000" {
			spdInt, _ := strconv.Atoi(spd)
			p.Speed = float64(spdInt) * 1.15078
		}

		// DF report: "/333/444text"
		re2 := aprsutils.CompiledRegexps.Get(`^/([0-9 \.]{3})/([0-9 \.]{3})`)
		matches2 := re2.FindStringSubmatch(body)

		if matches2 != nil && len(matches2) >= 3 {
			if cse == "000" {
				p.Course = 0
			}

			brg, nrq := matches2[1], matches2[2]
			body = body[8:]

			if isDigit(brg) {
				brgInt, _ := strconv.Atoi(brg)
				p.Bearing = brgInt
			}

			if isDigit(nrq) {
				nrqInt, _ := strconv.Atoi(nrq)
				p.NRQ = nrqInt
			}
		}
	} else {
		// PHG format: "PHGabcd", optionally "PHGabcdr/" for rate.
		re3 := aprsutils.CompiledRegexps.Get(`^(PHG(\d[\x30-\x7e]\d\d)([0-9A-Z]\/)?)`)
		matches3 := re3.FindStringSubmatch(body)

		if matches3 != nil && len(matches3) >= 4 {
			ext, phg, phgr := matches3[1], matches3[2], matches3[3]
			body = body[len(ext):]

			power, _ := strconv.Atoi(string(phg[0]))
			phgPower := math.Pow(float64(power), 2)

			height := 10 * math.Pow(2, float64(int(phg[1])-0x30))

			gain, _ := strconv.Atoi(string(phg[2]))
			phgGainLinear := math.Pow(10, float64(gain)/10.0)

			p.PHG = phg
			p.PHGPower = phgPower
			p.PHGHeight = height
			p.PHGGain = float64(gain)

			phgDir, _ := strconv.Atoi(string(phg[3]))
			switch {
			case phgDir == 0:
				p.PHGDir = directivityNames[0]
			case phgDir >= 1 && phgDir <= 8:
				p.PHGDir = directivityNames[phgDir]
			default:
				p.PHGDir = "invalid"
			}

			p.PHGRange = math.Sqrt(2*height*
				math.Sqrt((phgPower/10.0)*(phgGainLinear/2.0)))

			if phgr != "" {
				p.PHG = phg + string(phgr[0])
				rate, _ := strconv.ParseInt(string(phgr[0]), 16, 64)
				p.PHGRate = int(rate)
			}
		} else {
			// Range: "RNGdddd" in miles already, no conversion needed.
			re4 := aprsutils.CompiledRegexps.Get(`^RNG(\d{4})`)
			matches4 := re4.FindStringSubmatch(body)

			if matches4 != nil && len(matches4) >= 2 {
				body = body[7:]
				rngInt, _ := strconv.Atoi(matches4[1])
				p.RNG = float64(rngInt)
			}
		}
	}

	return body
}

// parseFrequency recognizes the standard frequency token of §4.4 rule 1:
// an optional leading band letter (A-O, for bands above 999 MHz where
// three integer digits won't fit) or digit, two more digits, a decimal
// point, three digits, an optional space, then "MHz". A
// non-canonically-cased "MHz" literal is still accepted but flagged.
func (p *Parsed) parseFrequency(body string) string {
	re := aprsutils.CompiledRegexps.Get(`^[ /]?([0-9A-O])(\d{2}\.\d{3}) ?([Mm][Hh][Zz])`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return body
	}

	lead, rest, mhzLiteral := m[1], m[2], m[3]

	var freq float64
	if lead[0] >= 'A' && lead[0] <= 'O' {
		offset, _ := strconv.ParseFloat(rest, 64)
		freq = freqBandPrefix[lead[0]] + offset
	} else {
		freq, _ = strconv.ParseFloat(lead+rest, 64)
	}

	p.FreqMHz = freq
	if mhzLiteral != "MHz" {
		p.diagf(SeverityWarning, "non-standard frequency unit capitalization: "+mhzLiteral)
	}

	return body[len(m[0]):]
}

// applyObjectNameFrequency is §4.4 rule 2's fallback: when no standard
// frequency token was found, an object/item whose name is itself a bare
// number inside one of the APRS amateur bands is treated as naming that
// frequency.
func (p *Parsed) applyObjectNameFrequency() {
	if p.ObjectName == "" {
		return
	}
	name := strings.TrimSpace(p.ObjectName)
	freq, err := strconv.ParseFloat(name, 64)
	if err != nil {
		return
	}
	for _, band := range amateurFrequencyBands {
		if freq >= band[0] && freq <= band[1] {
			p.FreqMHz = freq
			return
		}
	}
}

// parseTone recognizes the standard CTCSS tone token of §4.4 rule 3: a
// leading T or C, three digits giving the tone frequency, resolved to
// the nearest of the 50 standard tones; the bare literal "off" means no
// tone is in use.
func (p *Parsed) parseTone(body string) string {
	re := aprsutils.CompiledRegexps.Get(`(?i)(.*?)\b[TC](\d{3})\b(.*)$`)
	if m := re.FindStringSubmatch(body); m != nil {
		n, _ := strconv.Atoi(m[2])
		p.CTCSSToneHz = nearestCTCSSTone(n)
		return m[1] + m[3]
	}

	reOff := aprsutils.CompiledRegexps.Get(`(?i)(.*?)\boff\b(.*)$`)
	if m := reOff.FindStringSubmatch(body); m != nil {
		p.CTCSSToneHz = 0
		return m[1] + m[2]
	}

	return body
}

// parseDCS recognizes the DCS token of §4.4 rule 4: "D" followed by
// three octal digits.
func (p *Parsed) parseDCS(body string) string {
	re := aprsutils.CompiledRegexps.Get(`(.*?)\bD([0-7]{3})\b(.*)$`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return body
	}
	p.DCSOctal = m[2]
	return m[1] + m[3]
}

// parseOffset recognizes the repeater offset token of §4.4 rule 5: a
// signed three-digit number of tens of kHz.
func (p *Parsed) parseOffset(body string) string {
	re := aprsutils.CompiledRegexps.Get(`(.*?)([+-]\d{3})(.*)$`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return body
	}
	n, _ := strconv.Atoi(m[2])
	p.OffsetKHz = float64(n) * 10
	return m[1] + m[3]
}

// parseRange recognizes the range token of §4.4 rule 6: "R" followed by
// two digits and a units letter, m for miles or k for kilometers.
func (p *Parsed) parseRange(body string) string {
	re := aprsutils.CompiledRegexps.Get(`(.*?)\bR(\d{2})([mk])\b(.*)$`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return body
	}
	n, _ := strconv.Atoi(m[2])
	rng := float64(n)
	if m[3] == "k" {
		rng *= 0.621371
	}
	p.RNG = rng
	return m[1] + m[4]
}

// parseCommentAltitude parses the "/A=dddddd" comment altitude token
// (§4.4 rule 8). The six digits are feet directly, matching the
// compressed-position altitude field's unit.
func (p *Parsed) parseCommentAltitude(body string) string {
	pattern := `^(.*?)/A=(\-\d{5}|\d{6})(.*)$`
	re := aprsutils.CompiledRegexps.Get(pattern)
	matches := re.FindStringSubmatch(body)

	if matches != nil && len(matches) >= 4 {
		body = matches[1] + matches[3]
		altitude, _ := strconv.Atoi(matches[2])
		p.Altitude = float64(altitude)
	}

	return body
}

// parseDAO parses the "!Xaa!" datum/precision refinement token (§4.4
// rule 7). X identifies the datum: uppercase with two decimal digits
// adds each digit as thousandths of a minute to |lat| and |lon|;
// lowercase with two base-91 digits adds value/91 hundredths of a
// minute to each, a finer offset. The
// private-use 'T'/'t' datum letter instead records an APRStt corral or
// location code and contributes no coordinate offset.
func (p *Parsed) parseDAO(body string) string {
	pattern := `^(.*)\!([\x21-\x7b])([\x20-\x7b]{2})\!(.*?)$`
	re := aprsutils.CompiledRegexps.Get(pattern)
	matches := re.FindStringSubmatch(body)

	if matches == nil || len(matches) < 5 {
		return body
	}

	body, daobyte, dao, rest := matches[1], matches[2], matches[3], matches[4]
	body += rest

	p.DAODatumByte = strings.ToUpper(daobyte)

	if daobyte == "T" || daobyte == "t" {
		p.AprsttLoc = dao
		return body
	}

	latOffset, lonOffset := 0.0, 0.0
	isUpper := daobyte >= "A" && daobyte <= "Z"
	isLower := daobyte >= "a" && daobyte <= "z"

	switch {
	case isUpper && isDigit(dao):
		dao0, _ := strconv.Atoi(string(dao[0]))
		dao1, _ := strconv.Atoi(string(dao[1]))
		latOffset = float64(dao0) * 0.001 / 60
		lonOffset = float64(dao1) * 0.001 / 60
	case isLower && !strings.Contains(dao, " "):
		latBase91, err0 := aprsutils.ToDecimal(string(dao[0]))
		lonBase91, err1 := aprsutils.ToDecimal(string(dao[1]))
		if err0 == nil && err1 == nil {
			latOffset = (float64(latBase91) / 91.0) * 0.01 / 60
			lonOffset = (float64(lonBase91) / 91.0) * 0.01 / 60
		}
	}

	if p.Lat >= 0 {
		p.Lat += latOffset
	} else {
		p.Lat -= latOffset
	}

	if p.Lon >= 0 {
		p.Lon += lonOffset
	} else {
		p.Lon -= lonOffset
	}

	return body
}

// scanNonStandardSuggestions is §4.4 rule 10: once every recognized
// token has been stripped, anything left that looks like a bare
// amateur-band frequency or a "PL nnn.n" tone callout is reported as a
// diagnostic suggestion rather than silently dropped, since it almost
// certainly carries operator-meaningful information the strict grammar
// doesn't have a slot for.
func (p *Parsed) scanNonStandardSuggestions(body string) {
	freqRe := aprsutils.CompiledRegexps.Get(`(\d{3}\.\d{2,3})`)
	for _, m := range freqRe.FindAllStringSubmatch(body, -1) {
		freq, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		for _, band := range amateurFrequencyBands {
			if freq >= band[0] && freq <= band[1] {
				p.diagf(SeverityWarning, "non-standard frequency token "+m[1]+" left in comment")
				break
			}
		}
	}

	plRe := aprsutils.CompiledRegexps.Get(`(?i)\bpl\s?(\d{2,3}\.\d)\b`)
	if m := plRe.FindStringSubmatch(body); m != nil {
		p.diagf(SeverityWarning, "non-standard tone callout \"PL "+m[1]+"\" left in comment")
	}
}
