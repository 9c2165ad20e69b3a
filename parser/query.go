package parser

import (
	"strconv"
	"strings"

	"github.com/kc2g-aprs/tncd"
)

// parseGeneralQuery decodes the '?' general query DTI (§4.6): a query
// type terminated by a second '?', optionally followed by a
// "[lat,lon,radius]" footprint restricting which stations should reply.
func (p *Parsed) parseGeneralQuery(body string) {
	p.Format = "general-query"

	re := aprsutils.CompiledRegexps.Get(`^([A-Za-z0-9]+)\?(?:\[([-\d.]+),([-\d.]+),([-\d.]+)\])?`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		p.QueryType = strings.TrimSpace(body)
		return
	}

	p.QueryType = m[1]
	if m[2] != "" {
		lat, _ := strconv.ParseFloat(m[2], 64)
		lon, _ := strconv.ParseFloat(m[3], 64)
		radius, _ := strconv.ParseFloat(m[4], 64)
		p.FootprintLat = lat
		p.FootprintLon = lon
		p.FootprintRadiusMi = radius
	}
}
