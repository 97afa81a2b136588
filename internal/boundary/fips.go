package boundary

import (
	"encoding/csv"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// State is one row of the FIPS state code table.
type State struct {
	FIPS string
	Abbr string
	Name string
}

// StateTable maps state FIPS codes to names and abbreviations, loaded from
// the Census state.txt style delimited table (STATE|STUSAB|STATE_NAME).
type StateTable struct {
	byFIPS map[string]State
	byAbbr map[string]State
	byName map[string]State
}

// LoadStateTable reads a delimited state code table. The delimiter is
// detected from the header line (pipe or comma). Files that are not valid
// UTF-8 are decoded as Latin-1, which is how older Census exports arrive.
func LoadStateTable(path string) (*StateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read state table %s", path)
	}

	if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: decode state table %s", path)
		}
	}

	text := string(data)
	delim := ','
	if firstLine, _, _ := strings.Cut(text, "\n"); strings.ContainsRune(firstLine, '|') {
		delim = '|'
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: parse state table %s", path)
	}
	if len(rows) < 2 {
		return nil, eris.Errorf("boundary: state table %s has no data rows", path)
	}

	// Column positions from the header; fall back to the Census ordering
	// (code, abbreviation, name) when the header is unrecognized.
	fipsCol, abbrCol, nameCol := 0, 1, 2
	for i, h := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "STATE", "FIPS", "STATEFP":
			fipsCol = i
		case "STUSAB", "ABBR":
			abbrCol = i
		case "STATE_NAME", "NAME":
			nameCol = i
		}
	}

	t := &StateTable{
		byFIPS: make(map[string]State),
		byAbbr: make(map[string]State),
		byName: make(map[string]State),
	}
	for i, row := range rows[1:] {
		maxCol := max(fipsCol, max(abbrCol, nameCol))
		if len(row) <= maxCol {
			return nil, eris.Errorf("boundary: state table row %d has %d fields, want at least %d",
				i+2, len(row), maxCol+1)
		}
		s := State{
			FIPS: strings.TrimSpace(row[fipsCol]),
			Abbr: strings.ToUpper(strings.TrimSpace(row[abbrCol])),
			Name: strings.TrimSpace(row[nameCol]),
		}
		if s.FIPS == "" {
			continue
		}
		t.byFIPS[s.FIPS] = s
		t.byAbbr[s.Abbr] = s
		t.byName[strings.ToUpper(s.Name)] = s
	}

	if len(t.byFIPS) == 0 {
		return nil, eris.Errorf("boundary: state table %s yielded no states", path)
	}
	return t, nil
}

// Resolve turns a state identifier (FIPS code, postal abbreviation, or full
// name, case-insensitive) into its table entry.
func (t *StateTable) Resolve(id string) (State, error) {
	id = strings.TrimSpace(id)
	if s, ok := t.byFIPS[id]; ok {
		return s, nil
	}
	if s, ok := t.byAbbr[strings.ToUpper(id)]; ok {
		return s, nil
	}
	if s, ok := t.byName[strings.ToUpper(id)]; ok {
		return s, nil
	}
	return State{}, eris.Wrapf(ErrRegionNotFound, "state %q", id)
}

// Name returns the display name for a FIPS code, or the code itself when
// unknown (table optional on several commands).
func (t *StateTable) Name(fips string) string {
	if t == nil {
		return fips
	}
	if s, ok := t.byFIPS[fips]; ok {
		return s.Name
	}
	return fips
}

// Len returns the number of states loaded.
func (t *StateTable) Len() int { return len(t.byFIPS) }
