package ingest

import (
	"fmt"
	"strings"
	"time"
)

// PlaceholderSerial is the sentinel meaning "serial not yet assigned".
const PlaceholderSerial = "1"

// DefaultOrganizationID is the last-resort organization component of a
// synthesized serial when neither the row nor the actor carries one.
const DefaultOrganizationID int64 = 1

// NeedsSerial reports whether s1 is absent, blank, or the placeholder.
func NeedsSerial(v any) bool {
	if IsBlank(v) {
		return true
	}
	s, _ := StringValue(v)
	return strings.TrimSpace(s) == PlaceholderSerial
}

// ComposeSerial builds the composite serial code: collection date as
// YYYYMMDD, then the organization id and sub-sequence each zero-padded to
// three digits, read back as one integer.
func ComposeSerial(date time.Time, orgID, seq int64) (int64, error) {
	return parseInt(fmt.Sprintf("%s%03d%03d", date.Format("20060102"), orgID, seq))
}

// SynthesizeSerial assigns s1 when it is absent or the placeholder and the
// preconditions hold: s2 parses as a datetime and s3 as an integer. The
// organization component comes from the row, then defaultOrgID. On any
// failed precondition s1 is left as-is for validation to report.
func SynthesizeSerial(row Row, defaultOrgID int64) {
	if !NeedsSerial(row["s1"]) {
		return
	}
	date, ok := TimeValue(row["s2"])
	if !ok {
		return
	}
	seq, ok := IntValue(row["s3"])
	if !ok {
		return
	}
	orgID := defaultOrgID
	if v, ok := IntValue(row["organization_id"]); ok {
		orgID = v
	}
	if orgID <= 0 {
		orgID = DefaultOrganizationID
	}
	if serial, err := ComposeSerial(date, orgID, seq); err == nil {
		row["s1"] = serial
	}
}

// CoerceSerial forces a textual s1 into integer form: a clean numeric parse
// first, otherwise strip all non-digit characters and parse what remains.
// When no digits remain the value is left unchanged for the validator.
func CoerceSerial(row Row) {
	v, ok := row["s1"]
	if !ok || v == nil {
		return
	}
	if n, ok := IntValue(v); ok {
		row["s1"] = n
		return
	}
	s, _ := StringValue(v)
	digits := digitsOf(s)
	if digits == "" {
		return
	}
	if n, err := parseInt(digits); err == nil {
		row["s1"] = n
	}
}
