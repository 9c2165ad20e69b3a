package parser

import (
	"errors"
	"strings"

	"github.com/kc2g-aprs/tncd"
)

// parseItem decodes the ')' item report DTI (§4.2): a 3-9 character
// item name terminated by '!' (live) or '_' (killed), followed by the
// same coordinate-then-weather-or-comment body as a position report.
func (p *Parsed) parseItem(body string) error {
	m := aprsutils.CompiledRegexps.Get(`^([ -~]{3,9}?)(!|_)(.*)$`).FindStringSubmatch(body)
	if m == nil {
		return errors.New("invalid item format")
	}

	p.ObjectName = strings.TrimRight(m[1], " ")
	p.Alive = m[2] == "!"

	if err := p.parsePositionBody(m[3]); err != nil {
		return err
	}

	p.ObjectFormat = p.Format
	p.Format = "item"

	return nil
}
