package ingest

// FieldError is one schema violation on one field of one row.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// RowError collects every field error of a single row.
type RowError struct {
	Index  int          `json:"index"`
	Errors []FieldError `json:"errors"`
}

const (
	reasonRequired    = "required"
	reasonNotInteger  = "must be an integer"
	reasonNotDateTime = "must be a valid datetime"
	reasonNotNumber   = "must be a number"
)

// ValidateRow checks a row against the canonical schema and returns a
// normalized copy with typed values (int64, time.Time, decimal, string).
// It is a pure function of the row: no I/O, no cross-row state.
func ValidateRow(row Row) (Row, []FieldError) {
	out := make(Row, len(row))
	var errs []FieldError

	for _, f := range schema {
		v, present := row[f.Name]
		if IsBlank(v) {
			present = false
		}
		if !present {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Reason: reasonRequired})
			}
			continue
		}

		switch f.Kind {
		case KindString:
			s, ok := StringValue(v)
			if !ok {
				errs = append(errs, FieldError{Field: f.Name, Reason: reasonRequired})
				continue
			}
			out[f.Name] = s
		case KindInt:
			n, ok := IntValue(v)
			if !ok {
				errs = append(errs, FieldError{Field: f.Name, Reason: reasonNotInteger})
				continue
			}
			out[f.Name] = n
		case KindDateTime:
			t, ok := TimeValue(v)
			if !ok {
				errs = append(errs, FieldError{Field: f.Name, Reason: reasonNotDateTime})
				continue
			}
			out[f.Name] = t
		case KindNumber:
			d, ok := NumberValue(v)
			if !ok {
				errs = append(errs, FieldError{Field: f.Name, Reason: reasonNotNumber})
				continue
			}
			out[f.Name] = d
		}
	}

	return out, errs
}

// ValidateRows validates every row independently; one failing row never
// halts the rest. It returns the normalized rows that passed plus the
// per-row errors of those that did not.
func ValidateRows(rows []Row) ([]Row, []RowError) {
	valid := make([]Row, 0, len(rows))
	var rowErrs []RowError
	for i, row := range rows {
		normalized, errs := ValidateRow(row)
		if len(errs) > 0 {
			rowErrs = append(rowErrs, RowError{Index: i, Errors: errs})
			continue
		}
		valid = append(valid, normalized)
	}
	return valid, rowErrs
}
