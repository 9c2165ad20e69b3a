package parser

// parseThirdParty decodes the '}' DTI: a complete APRS packet nested
// inside another station's information field, most often a gateway
// relaying a packet it heard on another path.
func (p *Parsed) parseThirdParty(body string) error {
	p.Format = "thirdparty"

	parsed, err := Decode(body)
	if err != nil {
		return err
	}

	p.SubPacket = &parsed

	return nil
}
