package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kc2g-aprs/tncd"
)

// Weather field keys are kept in the units direwolf's own decode
// reproduces (mph, inches, °F, inHg) so a decoded report matches what an
// operator already expects from that software, even where the wire
// format itself carries something else (wind speed in knots, pressure
// in tenths of hPa).
var keyMap = map[byte]string{
	'g': "windGust",
	'c': "windDirection",
	't': "temperature",
	'S': "windSpeed",
	'r': "rain1h",
	'p': "rain24h",
	'P': "rainSinceMidnight",
	'h': "humidity",
	'b': "barometer",
	'l': "luminosity",
	'L': "luminosity",
	's': "snow",
	'#': "rainRaw",
}

var weatherOrder = []byte{'c', 'S', 'g', 't', 'r', 'p', 'P', 'h', 'b', 'l', 'L', 's', '#'}

var weatherLabels = map[byte]string{
	'c': "wind direction", 'S': "wind speed", 'g': "wind gust",
	't': "temperature", 'r': "rain (1h)", 'p': "rain (24h)",
	'P': "rain since midnight", 'h': "humidity", 'b': "barometer",
	'l': "luminosity", 'L': "luminosity", 's': "snow", '#': "rain (raw)",
}

var weatherUnits = map[byte]string{
	'c': "°", 'S': " mph", 'g': " mph", 't': "°F", 'r': " in",
	'p': " in", 'P': " in", 'h': "%", 'b': " inHg", 'l': " W/m²",
	'L': " W/m²", 's': " in", '#': "",
}

// knotsToMph converts the wire format's knots (the 'S' wind-speed field
// and the "ddd/sss" course/speed extension) to the mph this decoder
// reports speed in everywhere else.
const knotsToMph = 1.15078

// hpaToInHg converts the 'b' barometer field, carried on the wire as
// tenths of hPa, to the inches-of-mercury direwolf itself reports.
const hpaToInHg = 0.0295299830714

var valMap = map[byte]func(string) float64{
	'g': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val)
	},
	'c': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val)
	},
	'S': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val) * knotsToMph
	},
	't': func(x string) float64 {
		val, _ := strconv.ParseFloat(x, 64)
		return val
	},
	'r': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val) / 100
	},
	'p': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val) / 100
	},
	'P': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val) / 100
	},
	'h': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		if val == 0 {
			return 100
		}
		return float64(val)
	},
	'b': func(x string) float64 {
		val, _ := strconv.ParseFloat(x, 64)
		return val / 10 * hpaToInHg
	},
	'l': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val + 1000)
	},
	'L': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val)
	},
	's': func(x string) float64 {
		val, _ := strconv.ParseFloat(x, 64)
		return val
	},
	'#': func(x string) float64 {
		val, _ := strconv.Atoi(x)
		return float64(val)
	},
}

// parseWeatherData parses the keyed weather fields of §4.5: a "ddd/sss"
// wind direction/speed pair (uppercased to 'S' so it can't collide with
// the 's' snow key used further on) followed by any number of
// single-letter-keyed fields.
func (p *Parsed) parseWeatherData(body string) string {
	re1 := aprsutils.CompiledRegexps.Get(`^([0-9]{3})/([0-9]{3})`)
	body = re1.ReplaceAllString(body, "c${1}s${2}")
	body = strings.Replace(body, "s", "S", 1)

	re2 := aprsutils.CompiledRegexps.Get(`^([cSgtrpPlLs#][0-9\-. ]{3}|h[0-9. ]{2}|b[0-9. ]{5})+`)
	dataMatch := re2.FindString(body)

	if dataMatch != "" {
		data := dataMatch
		body = body[len(data):]

		re3 := aprsutils.CompiledRegexps.Get(`([cSgtrpPlLs#]\d{3}|t-\d{2}|h\d{2}|b\d{5}|s\.\d{2}|s\d\.\d)`)
		matches := re3.FindAllString(data, -1)

		for _, match := range matches {
			if len(match) < 2 {
				continue
			}

			keyChar := match[0]
			valueStr := strings.ReplaceAll(match[1:], " ", "")

			if keyFunc, ok := valMap[keyChar]; ok {
				if keyName, ok := keyMap[keyChar]; ok {
					p.Weather[keyName] = keyFunc(valueStr)
				}
			}
		}
	}

	// A "ddd/sss" extension ahead of the weather fields has already been
	// consumed by parseDataExtensions into Course/Speed (mph), and a
	// compressed position carries the wind in the same two fields; copy
	// that reading into the wind keys when the fields above had none.
	if _, ok := p.Weather["windDirection"]; !ok && p.Course != UnknownFloat {
		p.Weather["windDirection"] = p.Course
	}
	if _, ok := p.Weather["windSpeed"]; !ok && p.Speed != UnknownFloat {
		p.Weather["windSpeed"] = p.Speed
	}

	p.WeatherSummary = p.renderWeatherSummary()

	// §4.5: the "ddd/sss" data extension ahead of a weather payload is
	// wind direction/speed, not course/speed over ground — the wind
	// reading has been copied into p.Weather above, so the course/speed
	// fields must not survive as if this were a moving station.
	p.Course = UnknownFloat
	p.Speed = UnknownFloat

	return body
}

// renderWeatherSummary builds the human-readable weather line required
// by §4.5 ("concatenated ... in human-readable form"), in a fixed field
// order so repeated decodes of the same station are stable to diff.
func (p *Parsed) renderWeatherSummary() string {
	var parts []string
	for _, key := range weatherOrder {
		name := keyMap[key]
		val, ok := p.Weather[name]
		if !ok {
			continue
		}
		parts = append(parts, weatherLabels[key]+": "+humanize.FormatFloat("#,###.##", val)+weatherUnits[key])
	}
	return strings.Join(parts, ", ")
}

// parsePositionlessWeather parses the "_MMDDhhmmcdddsdddgdddtddd..." DTI,
// the weather report carried without a position (§4.5).
func (p *Parsed) parsePositionlessWeather(body string) (string, error) {
	re := aprsutils.CompiledRegexps.Get(`^(\d{8})c[. \d]{3}s[. \d]{3}g[. \d]{3}t[. \d]{3}`)
	match := re.FindStringSubmatch(body)

	if match == nil {
		return "", errors.New("invalid positionless weather report format")
	}

	p.Format = "weather"
	comment := p.parseWeatherData(body[8:])

	p.Comment = strings.Trim(comment, " ")

	return "", nil
}
