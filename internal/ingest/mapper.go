package ingest

import "strings"

// serialHeaderHints are the substrings that identify a serial-number
// column, checked in this order against each lowercased header.
var serialHeaderHints = []string{"s1", "sno", "serial", "s.no", "sr#", "s no"}

// GuessSerialColumn scans headers in order and returns the first one whose
// lowercased text contains a serial hint. With no match the first column is
// the fallback; with no columns at all there is nothing to guess.
func GuessSerialColumn(headers []string) (string, bool) {
	if len(headers) == 0 {
		return "", false
	}
	for _, h := range headers {
		lc := strings.ToLower(h)
		for _, hint := range serialHeaderHints {
			if strings.Contains(lc, hint) {
				return h, true
			}
		}
	}
	return headers[0], true
}

// MapColumns maps each canonical field to the raw header whose lowercased
// text equals the field name. Unmatched canonical fields are absent from
// the result; that is not an error, they become empty columns.
func MapColumns(headers []string, canonical []string) map[string]string {
	byLower := make(map[string]string, len(headers))
	for _, h := range headers {
		lc := strings.ToLower(h)
		if _, seen := byLower[lc]; !seen {
			byLower[lc] = h
		}
	}

	mapping := make(map[string]string)
	for _, field := range canonical {
		if h, ok := byLower[strings.ToLower(field)]; ok {
			mapping[field] = h
		}
	}
	return mapping
}

// ApplyMapping projects header-keyed rows onto the canonical field set.
// Canonical fields without a matching header yield no value; unrecognized
// headers are dropped.
func ApplyMapping(rows []Row, mapping map[string]string) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		mapped := make(Row, len(mapping))
		for field, header := range mapping {
			if v, ok := row[header]; ok && !IsBlank(v) {
				mapped[field] = v
			}
		}
		out[i] = mapped
	}
	return out
}

// FilterBySerial keeps only rows whose guessed serial cell is non-blank.
// Callers use the filtered set as the default insertable view and keep the
// full set around for manual correction.
func FilterBySerial(headers []string, rows []Row) []Row {
	col, ok := GuessSerialColumn(headers)
	if !ok {
		return rows
	}
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !IsBlank(row[col]) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
