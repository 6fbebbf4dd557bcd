package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is a loosely-typed input row keyed by column name. Values may be
// strings, numbers, times, or nil depending on the source (spreadsheet
// cells arrive as strings, JSON batches as float64/string).
type Row map[string]any

// FieldKind is the canonical type of a schema field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindDateTime
	KindNumber
)

// FieldSpec describes one canonical column of the collection schema.
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Required bool
}

// schema is the canonical collection-record schema. Required fields gate
// the whole row; optional fields only fail when present with the wrong type.
var schema = buildSchema()

func buildSchema() []FieldSpec {
	fields := []FieldSpec{
		{Name: "collection_code", Kind: KindString, Required: true},
		{Name: "member_id", Kind: KindInt},
		{Name: "organization_id", Kind: KindInt},
		{Name: "s1", Kind: KindInt, Required: true},
		{Name: "s2", Kind: KindDateTime, Required: true},
		{Name: "s3", Kind: KindInt, Required: true},
		{Name: "s4", Kind: KindString, Required: true},
		{Name: "s5", Kind: KindNumber},
		{Name: "s6", Kind: KindNumber},
		{Name: "s7", Kind: KindNumber},
		{Name: "s8", Kind: KindNumber},
		{Name: "s9", Kind: KindNumber},
		{Name: "s10", Kind: KindString},
		{Name: "s11", Kind: KindString},
		{Name: "s12", Kind: KindString},
		{Name: "s13", Kind: KindNumber},
	}
	for i := 1; i <= 20; i++ {
		fields = append(fields, FieldSpec{Name: fmt.Sprintf("c%d", i), Kind: KindNumber})
	}
	for i := 1; i <= 41; i++ {
		fields = append(fields, FieldSpec{Name: fmt.Sprintf("l%d", i), Kind: KindNumber})
	}
	fields = append(fields,
		FieldSpec{Name: "source", Kind: KindString},
		FieldSpec{Name: "notes", Kind: KindString},
	)
	return fields
}

// Schema returns the canonical collection-record schema.
func Schema() []FieldSpec {
	return schema
}

// CanonicalFields returns the canonical column names in schema order.
func CanonicalFields() []string {
	names := make([]string, len(schema))
	for i, f := range schema {
		names[i] = f.Name
	}
	return names
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsBlank reports whether a cell value is absent or whitespace-only.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// StringValue coerces a scalar cell to its string form.
func StringValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case time.Time:
		return t.Format(time.RFC3339), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}

// IntValue coerces a cell to an integer. Floats and decimal strings only
// qualify when they are exactly integral.
func IntValue(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case uint64:
		return int64(t), true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
		return 0, false
	case decimal.Decimal:
		if t.IsInteger() {
			return t.IntPart(), true
		}
		return 0, false
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil || !d.IsInteger() {
			return 0, false
		}
		return d.IntPart(), true
	default:
		return 0, false
	}
}

// NumberValue coerces a cell to a fixed-point decimal.
func NumberValue(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case float64:
		return decimal.NewFromFloat(t), true
	case decimal.Decimal:
		return t, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// TimeValue coerces a cell to a timestamp, accepting ISO datetimes and
// plain dates.
func TimeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateTimeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// NormalizeNumber converts a fixed-point decimal to a uniform storage
// representation: an integer when exactly integral, a float otherwise.
func NormalizeNumber(d decimal.Decimal) any {
	if d.IsInteger() {
		return d.IntPart()
	}
	return d.InexactFloat64()
}

// digitsOf strips every non-digit rune; empty when none remain.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseInt is a strict base-10 parse used by serial coercion.
func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
