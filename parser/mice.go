package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/kc2g-aprs/tncd"
)

var MtypeTableStd = map[string]string{
	"111": "M0: Off Duty",
	"110": "M1: En Route",
	"101": "M2: In Service",
	"100": "M3: Returning",
	"011": "M4: Committed",
	"010": "M5: Special",
	"001": "M6: Priority",
	"000": "Emergency",
}

var MtypeTableCustom = map[string]string{
	"111": "C0: Custom-0",
	"110": "C1: Custom-1",
	"101": "C2: Custom-2",
	"100": "C3: Custom-3",
	"011": "C4: Custom-4",
	"010": "C5: Custom-5",
	"001": "C6: Custom-6",
	"000": "Emergency",
}

// micEMfrRule matches a manufacturer-identification byte sequence that
// immediately follows the Mic-E symbol code, per §4.3's device table.
// A rule with a non-empty trailingSuffix only applies when that literal
// suffix is found right before the altitude/telemetry tail; trimFront
// and trimBack say how many bytes of the match to strip from the
// comment once the manufacturer has been identified.
type micEMfrRule struct {
	leading        byte
	trailingSuffix string
	mfr            string
	trimFront      int
	trimBack       int
}

var micEMfrTable = []micEMfrRule{
	{'>', "=", "Kenwood TH-D74", 1, 1},
	{'>', "^", "Kenwood TH-D74A", 1, 1},
	{'>', "", "Kenwood TH-D7A", 1, 0},
	{']', "=", "Kenwood TH-D72", 1, 1},
	{']', "", "Kenwood TH-D72", 1, 0},
	{'`', "_ ", "Yaesu VX-8", 1, 2},
	{'`', "_\"", "Yaesu FTM-350", 1, 2},
	{'`', "_#", "Yaesu VX-8G", 1, 2},
	{'`', "_$", "Yaesu FT1D", 1, 2},
	{'`', "_%", "Yaesu FTM-400DR", 1, 2},
	{'`', "_)", "Yaesu FTM-100D", 1, 2},
	{'\'', "|3", "Byonics TinyTrak3", 1, 2},
	{'\'', "|4", "Byonics TinyTrak4", 1, 2},
	{'\'', ":4", "SCS GmbH & Co. P4dragon", 1, 2},
}

// identifyMicEMfr applies §4.3's manufacturer table to the bytes right
// after the symbol code. It returns the manufacturer name (empty if no
// rule matched) and the comment with the matched bytes trimmed off.
func identifyMicEMfr(body string) (string, string) {
	if body == "" {
		return "", body
	}
	for _, rule := range micEMfrTable {
		if body[0] != rule.leading {
			continue
		}
		if rule.trailingSuffix == "" {
			return rule.mfr, body[rule.trimFront:]
		}
		if strings.HasSuffix(body, rule.trailingSuffix) {
			end := len(body) - rule.trimBack
			if end < rule.trimFront {
				continue
			}
			return rule.mfr, body[rule.trimFront:end]
		}
	}
	return "", body
}

// parseMicE decodes a Mic-E position report (C5): the destination
// callsign field encodes latitude, message bits, and the longitude
// offset/sign, while the information field carries longitude, speed,
// course, symbol, and an optional altitude/telemetry/comment tail.
func (p *Parsed) parseMicE(dstCall string, body string) (string, error) {
	p.Format = "mic-e"

	parts := strings.Split(dstCall, "-")
	dstCall = parts[0]

	if len(dstCall) != 6 {
		return "", errors.New("dstCall has to be 6 characters")
	}
	if len(body) < 8 {
		return "", errors.New("packet data field is too short")
	}

	re1 := aprsutils.CompiledRegexps.Get(`^[0-9A-Z]{3}[0-9L-Z]{3}$`)
	if !re1.MatchString(dstCall) {
		return "", errors.New("invalid dstCall")
	}

	re2 := aprsutils.CompiledRegexps.Get(`^[&-\x7f][&-a][\x1c-\x7f]{2}[\x1c-\x7d][\x1c-\x7f][\x21-\x7e][/\\0-9A-Z]`)
	if !re2.MatchString(body) {
		return "", errors.New("invalid data format")
	}

	p.SymbolTable = string(body[7])
	p.SymbolCode = string(body[6])

	// Parse latitude. Each destination-address character translates to a
	// lat digit per the Mic-E destination address field encoding table.
	tempDstCall := ""
	for _, i := range dstCall {
		c := byte(i)
		switch {
		case c == 'K' || c == 'L' || c == 'Z':
			tempDstCall += " "
		case c > 76: // P-Y
			tempDstCall += string(c - 32)
		case c > 57: // A-J
			tempDstCall += string(c - 17)
		default: // 0-9
			tempDstCall += string(c)
		}
	}

	re3 := aprsutils.CompiledRegexps.Get(`^\d+( *)$`)
	matches := re3.FindStringSubmatch(tempDstCall)
	if matches == nil {
		return "", errors.New("invalid latitude ambiguity")
	}

	posAmbiguity := len(matches[1])
	p.PosAmbiguity = posAmbiguity

	tempDstCallRunes := []rune(tempDstCall)
	if posAmbiguity > 0 {
		if posAmbiguity >= 4 {
			tempDstCallRunes[2] = '3'
		} else {
			tempDstCallRunes[6-posAmbiguity] = '5'
		}
	}
	tempDstCall = string(tempDstCallRunes)

	latMinutesStr := strings.ReplaceAll(tempDstCall[2:4]+"."+tempDstCall[4:6], " ", "0")
	latMinutes, err := strconv.ParseFloat(latMinutesStr, 64)
	if err != nil {
		return "", errors.New("invalid latitude minutes format")
	}

	latDegrees, _ := strconv.Atoi(tempDstCall[0:2])
	latitude := float64(latDegrees) + (latMinutes / 60.0)

	if dstCall[3] <= 0x4c {
		latitude = -latitude
	}

	p.Lat = latitude

	mBits := aprsutils.CompiledRegexps.Get("[0-9L]").ReplaceAllString(dstCall[0:3], "0")
	mBits = aprsutils.CompiledRegexps.Get("[P-Z]").ReplaceAllString(mBits, "1")
	mBits = aprsutils.CompiledRegexps.Get("[A-K]").ReplaceAllString(mBits, "2")

	p.MBits = mBits

	if strings.Contains(mBits, "2") {
		mTypeKey := strings.ReplaceAll(mBits, "2", "1")
		p.MType = MtypeTableCustom[mTypeKey]
	} else {
		p.MType = MtypeTableStd[mBits]
	}

	longitude := float64(body[0]) - 28
	if dstCall[4] >= 0x50 {
		longitude += 100
	}
	if longitude >= 180 && longitude <= 189 {
		longitude -= 80
	} else if longitude >= 190 && longitude <= 199 {
		longitude -= 190
	}

	lngMinutes := float64(body[1]) - 28.0
	if lngMinutes >= 60 {
		lngMinutes -= 60
	}

	lngMinutes += (float64(body[2]) - 28.0) / 100.0

	switch posAmbiguity {
	case 4:
		lngMinutes = 30
	case 3:
		lngMinutes = (math.Floor(lngMinutes/10) + 0.5) * 10
	case 2:
		lngMinutes = math.Floor(lngMinutes) + 0.5
	case 1:
		lngMinutes = (math.Floor(lngMinutes*10) + 0.5) / 10.0
	case 0:
		// exact, no adjustment
	default:
		return "", errors.New("unsupported position ambiguity: " + strconv.Itoa(posAmbiguity))
	}

	longitude += lngMinutes / 60.0

	if dstCall[5] >= 0x50 {
		longitude = -longitude
	}

	p.Lon = longitude

	speed := (float64(body[3]) - 28) * 10
	course := float64(body[4]) - 28
	quotient := int(course / 10.0)
	course -= float64(quotient * 10)
	course = course*100 + float64(body[5]) - 28
	speed += float64(quotient)

	if speed >= 800 {
		speed -= 800
	}
	if course >= 400 {
		course -= 400
	}

	p.Speed = speed * 1.15078
	p.Course = course

	if len(body) > 8 {
		body = body[8:]

		if mfr, rest := identifyMicEMfr(body); mfr != "" {
			p.Mfr = mfr
			body = rest
		}

		re4 := aprsutils.CompiledRegexps.Get(`^('[0-9a-f]{10}|` + "`" + `[0-9a-f]{4})(.*)$`)
		matches := re4.FindStringSubmatch(body)
		if matches != nil && len(matches) >= 3 {
			hexData, remainingBody := matches[1], matches[2]
			hexData = hexData[1:]

			channels := len(hexData) / 2

			hexInt, err := strconv.ParseInt(hexData, 16, 64)
			if err != nil {
				return "", errors.New("invalid telemetry hex data")
			}

			telemetry := make([]int, channels)
			for i := 0; i < channels; i++ {
				telemetry[channels-1-i] = int(hexInt >> uint(8*i) & 255)
			}

			p.TelemetryMicE = telemetry
			body = remainingBody
		}

		re5 := aprsutils.CompiledRegexps.Get(`^(.*)([!-{]{3})}(.*)$`)
		matches = re5.FindStringSubmatch(body)
		if matches != nil && len(matches) >= 4 {
			bodyPart, altitude, extra := matches[1], matches[2], matches[3]
			altitudeBase91, err := aprsutils.ToDecimal(altitude)
			if err != nil {
				return "", err
			}
			// The base-91 token yields meters above/below a 10000 m
			// offset; Altitude is feet everywhere else in Parsed.
			altitudeMeters := float64(altitudeBase91 - 10000)
			p.Altitude = altitudeMeters * 3.28084
			body = bodyPart + extra
		}

		body = p.parseCommentTelemetry(body)

		body = p.parseDAO(body)

		p.Comment = strings.Trim(body, " ")
	}

	return "", nil
}
