package aprsutils

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
	"sync"
)

// tocallSearchPath lists the locations probed, in order, for the TOCALL
// table file. Matches direwolf's own search order.
var tocallSearchPath = []string{
	"tocalls.txt",
	"/usr/share/direwolf/tocalls.txt",
	"/usr/local/share/direwolf/tocalls.txt",
}

// TOCALLEntry is one (prefix, description) pair from the table file.
type TOCALLEntry struct {
	Prefix      string
	Description string
}

// TOCALLTable is an immutable, longest-prefix-first sorted TOCALL table,
// loaded once and owned by the decoder instance that created it (§9:
// "A single immutable sorted list, owned by the decoder instance, not a
// process-global").
type TOCALLTable struct {
	entries []TOCALLEntry
	loaded  bool
}

var tocallOnce sync.Once

// LoadTOCALLTable reads the first tocalls.txt found on tocallSearchPath.
// A missing file is not an error: it produces an empty table and logs a
// one-time warning per §7 ("TOCALL file missing: one-time warning;
// manufacturer field left empty").
func LoadTOCALLTable(logger Logger) *TOCALLTable {
	t := &TOCALLTable{}

	var data []byte
	var err error
	for _, path := range tocallSearchPath {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		tocallOnce.Do(func() {
			if logger != nil {
				logger.Warn(context.Background(), "tocalls.txt not found in any search path; manufacturer lookups will be empty")
			}
		})
		return t
	}

	t.parse(string(data))
	t.loaded = true
	return t
}

// parse accepts either fixed-column layout documented in §6:
//
//	" AP???  description..."   (AP... starts at column 1, description at 14)
//	"      AP???description..." (AP... starts at column 6, description at 14)
func (t *TOCALLTable) parse(text string) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || line[0] != ' ' {
			continue
		}

		var prefix string
		switch {
		case len(line) >= 7 && strings.HasPrefix(line[1:], "AP"):
			prefix = strings.TrimRight(line[1:6], " ")
		case len(line) >= 13 && strings.HasPrefix(line[6:], "AP"):
			prefix = strings.TrimRight(line[6:13], " ")
		default:
			continue
		}
		if prefix == "" {
			continue
		}

		desc := ""
		if len(line) > 14 {
			desc = strings.TrimSpace(line[14:])
		}

		t.entries = append(t.entries, TOCALLEntry{Prefix: prefix, Description: desc})
	}

	sort.SliceStable(t.entries, func(i, j int) bool {
		return len(t.entries[i].Prefix) > len(t.entries[j].Prefix)
	})
}

// Classify returns the description of the longest prefix of dest that
// matches a table entry, or "" if none match.
func (t *TOCALLTable) Classify(dest string) string {
	dest = strings.SplitN(dest, "-", 2)[0]
	dest = strings.ToUpper(dest)

	for _, e := range t.entries {
		if strings.HasPrefix(dest, e.Prefix) {
			return e.Description
		}
	}
	return ""
}

// Loaded reports whether a tocalls.txt file was actually found.
func (t *TOCALLTable) Loaded() bool {
	return t.loaded
}
