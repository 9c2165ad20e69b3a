package aprsutils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// tocallLine builds one data line in the column layout parse() expects:
// a leading space, the prefix starting at column 1 (or 6, for the
// six-space-indent variant), and the description always starting at
// column 14.
func tocallLine(indent int, prefix, desc string) string {
	lead := strings.Repeat(" ", indent+1)
	line := lead + prefix
	if pad := 14 - len(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line + desc
}

func TestTOCALLClassifyLongestPrefix(t *testing.T) {
	data := strings.Join([]string{
		tocallLine(0, "APRS", "Original APRS"),
		tocallLine(5, "APK003", "Kenwood TH-D7A"),
	}, "\n")

	table := &TOCALLTable{}
	table.parse(data)

	assert.Equal(t, "Kenwood TH-D7A", table.Classify("APK003-10"))
	assert.Equal(t, "Original APRS", table.Classify("aprs"))
}

func TestTOCALLClassifyNoMatch(t *testing.T) {
	data := tocallLine(0, "APRS", "Original APRS")

	table := &TOCALLTable{}
	table.parse(data)

	assert.Equal(t, "", table.Classify("BEACON"))
}

func TestTOCALLClassifySkipsBlankAndMalformedLines(t *testing.T) {
	data := strings.Join([]string{
		"",
		"not a tocall line",
		tocallLine(0, "APRS", "Original APRS"),
	}, "\n")

	table := &TOCALLTable{}
	table.parse(data)

	assert.Equal(t, "Original APRS", table.Classify("APRS"))
	assert.Len(t, table.entries, 1)
}

func TestTOCALLLoadMissingFileIsNotFatal(t *testing.T) {
	table := LoadTOCALLTable(nil)
	assert.False(t, table.Loaded())
	assert.Equal(t, "", table.Classify("APRS"))
}

func ExampleTOCALLTable_Classify() {
	data := tocallLine(0, "APRS", "Original APRS")
	table := &TOCALLTable{}
	table.parse(data)
	fmt.Println(table.Classify("APRS-10"))
	// Output: Original APRS
}
