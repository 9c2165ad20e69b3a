package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kc2g-aprs/tncd"
)

// parsePosition parses the five position-carrying DTIs (! = / @ ;) per
// §4.2. Object (;) additionally carries a 9-char name/alive flag ahead
// of the timestamp; the rest is shared with plain position reports.
func (p *Parsed) parsePosition(packetType string, body string) error {
	if !strings.Contains("!=/@;", packetType) {
		packetType = "!"
		_, body, _ = SplitOnce(body, "!")
	}

	if packetType == ";" {
		matches := aprsutils.CompiledRegexps.Get(`^([ -~]{9})(\*|_)`).FindStringSubmatch(body)
		if matches == nil || len(matches) < 3 {
			return errors.New("invalid object format")
		}
		p.ObjectName = matches[1]
		p.Alive = matches[2] == "*"
		body = string([]rune(body)[10:])
	} else {
		p.MessageCapable = strings.Contains("@=", packetType)
	}

	if strings.Contains("/@;", packetType) {
		var err error
		body, err = p.parseTimeStamp(packetType, body)
		if err != nil {
			return err
		}
	}
	if StringLen(body) == 0 && p.Timestamp != 0 {
		return errors.New("invalid timestamp format")
	}

	if err := p.parsePositionBody(body); err != nil {
		return err
	}

	if packetType == ";" {
		p.ObjectFormat = p.Format
		p.Format = "object"
	}

	return nil
}

// parsePositionBody decodes the coordinate pair (human-readable or
// compressed) and then routes the remainder to the weather parser (C3)
// or the comment post-processor (C2), per §4.2's "for the
// position-carrying formats, after coordinate extraction, if
// symbol_code == '_' the payload is a weather report".
func (p *Parsed) parsePositionBody(body string) error {
	var err error
	if aprsutils.CompiledRegexps.Get(`^[0-9\s]{4}\.[0-9\s]{2}[NnSs].[0-9\s]{5}\.[0-9\s]{2}[EeWw]`).MatchString(body) {
		body, err = p.parseNormal(body)
		if err != nil {
			return err
		}
	} else {
		body, err = p.parseCompressed(body)
		if err != nil {
			return err
		}
	}

	if p.SymbolCode == "_" {
		body = p.parseDataExtensions(body)
		p.parseWeatherData(body)
	} else {
		p.parseComment(body)
	}

	return nil
}

// parseCompressed decodes the 13-byte base-91 compressed position per
// §4.1: overlay, yyyy, xxxx, symbol, c, s, t.
func (p *Parsed) parseCompressed(body string) (string, error) {
	if len(body) < 13 {
		return body, errors.New("invalid compressed format")
	}

	p.Format = "compressed"

	compressed := string([]rune(body)[:13])
	body = string([]rune(body)[13:])

	symbolTable := string([]rune(compressed)[0])
	symbol := string([]rune(compressed)[9])
	if symbolTable >= "a" && symbolTable <= "j" {
		symbolTable = string(rune('0' + (symbolTable[0] - 'a')))
	}

	base91Lat, err := aprsutils.ToDecimal(string([]rune(compressed)[1:5]))
	if err != nil {
		return body, err
	}
	base91Lon, err := aprsutils.ToDecimal(string([]rune(compressed)[5:9]))
	if err != nil {
		return body, err
	}

	latitude := 90 - (float64(base91Lat) / 380926)
	longitude := -180 + (float64(base91Lon) / 190463)

	c1 := int(compressed[10]) - 33
	s1 := int(compressed[11]) - 33
	ctype := int(compressed[12]) - 33

	if c1 == -1 {
		p.GPSFixStatus = ctype&0x20 == 0x20
	}

	switch {
	case c1 == -1 || s1 == -1:
		// No course/speed/altitude/range byte present.
	case ctype&0x18 == 0x10:
		p.Altitude = math.Pow(1.002, float64(c1*91+s1))
	case c1 >= 0 && c1 <= 89:
		p.Course = float64(c1 * 4)
		p.Speed = (math.Pow(1.08, float64(s1)) - 1) * 1.15078
	case c1 == 90:
		p.RadioRange = 2 * math.Pow(1.08, float64(s1))
	}

	p.SymbolTable = symbolTable
	p.SymbolCode = symbol
	p.Lon = longitude
	p.Lat = latitude

	return body, nil
}

// parseNormal decodes the fixed-width ddmm.hhN / dddmm.hhW human-readable
// coordinate pair per §4.1. Each field is range-checked independently;
// the first violation downgrades Lat/Lon to UNKNOWN and reports a
// diagnostic naming the offending character.
func (p *Parsed) parseNormal(body string) (string, error) {
	pattern := `^(\d{2})([0-9 ]{2}\.[0-9 ]{2})([NnSs])([\/\\0-9A-Z])` +
		`(\d{3})([0-9 ]{2}\.[0-9 ]{2})([EeWw])([\x21-\x7e])(.*)$`

	matches := aprsutils.CompiledRegexps.Get(pattern).FindStringSubmatch(body)
	if matches == nil || len(matches) < 10 {
		return body, nil
	}

	p.Format = "uncompressed"

	latDeg := matches[1]
	latMin := matches[2]
	latDir := matches[3]
	symbolTable := matches[4]
	lonDeg := matches[5]
	lonMin := matches[6]
	lonDir := matches[7]
	symbol := matches[8]
	remainingBody := matches[9]

	if latDir == "s" || latDir == "n" {
		p.diagf(SeverityWarning, "lower-case hemisphere letter "+latDir+" in latitude")
	}
	if lonDir == "w" || lonDir == "e" {
		p.diagf(SeverityWarning, "lower-case hemisphere letter "+lonDir+" in longitude")
	}

	posAmbiguity := strings.Count(latMin, " ")
	if posAmbiguity != strings.Count(lonMin, " ") {
		return body, errors.New("latitude and longitude ambiguity mismatch")
	}
	p.PosAmbiguity = posAmbiguity

	// Known deviation (§9): position ambiguity is honoured only as far as
	// truncating to the middle of the ambiguity box, not as a separate
	// precision field.
	if posAmbiguity >= 4 {
		latMin = "30"
		lonMin = "30"
	} else {
		latMin = strings.Replace(latMin, " ", "5", 1)
		lonMin = strings.Replace(lonMin, " ", "5", 1)
	}

	latDegInt, err := strconv.Atoi(latDeg)
	if err != nil {
		return body, errors.New("invalid latitude degrees")
	}
	if latDegInt > 90 || latDegInt < 0 {
		p.diagf(SeverityError, fmt.Sprintf("latitude degrees %q out of range [00,90]", latDeg))
		return body, errors.New("latitude is out of range (0-90 degrees)")
	}

	lonDegInt, err := strconv.Atoi(lonDeg)
	if err != nil {
		return body, errors.New("invalid longitude degrees")
	}
	if lonDegInt > 180 || lonDegInt < 0 {
		p.diagf(SeverityError, fmt.Sprintf("longitude degrees %q out of range [000,180]", lonDeg))
		return body, errors.New("longitude is out of range (0-180 degrees)")
	}

	latMinFloat, err := strconv.ParseFloat(strings.TrimSpace(latMin), 64)
	if err != nil {
		return body, errors.New("invalid latitude minutes")
	}
	if latMinFloat >= 60 {
		p.diagf(SeverityError, fmt.Sprintf("latitude minutes %q out of range [00,59]", latMin))
		return body, errors.New("latitude minutes out of range")
	}
	latitude := float64(latDegInt) + (latMinFloat / 60.0)

	lonMinFloat, err := strconv.ParseFloat(strings.TrimSpace(lonMin), 64)
	if err != nil {
		return body, errors.New("invalid longitude minutes")
	}
	if lonMinFloat >= 60 {
		p.diagf(SeverityError, fmt.Sprintf("longitude minutes %q out of range [00,59]", lonMin))
		return body, errors.New("longitude minutes out of range")
	}
	longitude := float64(lonDegInt) + (lonMinFloat / 60.0)

	if strings.Contains("Ss", string(latDir[0])) {
		latitude *= -1
	}
	if strings.Contains("Ww", string(lonDir[0])) {
		longitude *= -1
	}

	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		p.diagf(SeverityError, "decoded coordinate out of range")
		return body, errors.New("decoded coordinate out of range")
	}

	p.SymbolTable = symbolTable
	p.SymbolCode = symbol
	p.Lon = longitude
	p.Lat = latitude

	return remainingBody, nil
}
