package parser

import "strings"

// parseRawGPS decodes the '$' raw GPS DTI (§4.6): a station relaying its
// GPS receiver's own NMEA sentence verbatim, or (rarely, on the same
// DTI) a Peet Bros Ultimeter weather station's proprietary "$ULTW" log
// line. Full NMEA checksum/field decoding is an external collaborator's
// job (§1); this only classifies the sentence and keeps its text.
func (p *Parsed) parseRawGPS(body string) {
	p.Format = "raw-gps"
	p.Body = body

	switch {
	case strings.HasPrefix(body, "GPRMC,"):
		p.Type = "GPRMC"
	case strings.HasPrefix(body, "GPGGA,"):
		p.Type = "GPGGA"
	case strings.HasPrefix(body, "GPGLL,"):
		p.Type = "GPGLL"
	case strings.HasPrefix(body, "ULTW"):
		p.Format = "ultimeter"
		p.Type = "ULTW"
	}
}
