package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyUpload is returned when a parsed upload contains no header row.
	ErrEmptyUpload = errors.New("no data parsed from file")

	// ErrUnreadableUpload is returned when a file parses as neither a
	// workbook nor a CSV.
	ErrUnreadableUpload = errors.New("could not parse upload")
)

// ReadTable parses an uploaded spreadsheet or CSV into a header row plus
// header-keyed rows. The filename extension picks the format; unknown
// extensions try Excel first, then CSV, matching what uploaders actually
// send.
func ReadTable(filename string, r io.Reader) ([]string, []Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}

	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls"):
		return readExcel(data)
	case strings.HasSuffix(name, ".csv"):
		return readCSV(data)
	default:
		if headers, rows, err := readExcel(data); err == nil {
			return headers, rows, nil
		}
		return readCSV(data)
	}
}

func readExcel(data []byte) ([]string, []Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnreadableUpload, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyUpload
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return tableFromRecords(records)
}

func readCSV(data []byte) ([]string, []Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnreadableUpload, err)
	}
	return tableFromRecords(records)
}

func tableFromRecords(records [][]string) ([]string, []Row, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, nil, ErrEmptyUpload
	}
	headers := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
