package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ksc-migration/collections-api/internal/ingest"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNoRows = errors.New("no rows provided")

// IngestService runs the ingestion pipeline: column mapping, reference
// resolution, serial synthesis, validation, and the all-or-nothing commit.
type IngestService struct {
	orgRepo        repository.OrganizationRepository
	collectionRepo repository.CollectionRepository
}

// NewIngestService creates a new IngestService.
func NewIngestService(orgRepo repository.OrganizationRepository, collectionRepo repository.CollectionRepository) *IngestService {
	return &IngestService{
		orgRepo:        orgRepo,
		collectionRepo: collectionRepo,
	}
}

// BatchResult summarizes a committed batch.
type BatchResult struct {
	Received int `json:"received"`
	Valid    int `json:"valid"`
	Inserted int `json:"inserted"`
}

// PrepareRows applies actor defaults, resolves organization names to ids,
// and synthesizes serial codes. Input rows are not mutated. A storage
// failure during name resolution is fatal; an unresolved name is not, the
// value stays as-is for the validator to flag.
func (s *IngestService) PrepareRows(rows []ingest.Row, actor *Identity) ([]ingest.Row, error) {
	defaultOrg := ingest.DefaultOrganizationID
	if oid := actor.OrganizationID(); oid != nil {
		defaultOrg = int64(*oid)
	}

	prepared := make([]ingest.Row, len(rows))
	for i, r := range rows {
		row := r.Clone()

		if err := s.resolveOrganization(row, actor); err != nil {
			return nil, err
		}

		if ingest.IsBlank(row["source"]) {
			if source := actor.Source(); source != "" {
				row["source"] = source
			}
		}

		ingest.SynthesizeSerial(row, defaultOrg)
		ingest.CoerceSerial(row)

		prepared[i] = row
	}
	return prepared, nil
}

// resolveOrganization fills the organization reference: actor default when
// absent, exact name lookup when textual. An integer passes through
// unchanged and an unknown name is left untouched.
func (s *IngestService) resolveOrganization(row ingest.Row, actor *Identity) error {
	v, ok := row["organization_id"]
	if !ok || ingest.IsBlank(v) {
		if oid := actor.OrganizationID(); oid != nil {
			row["organization_id"] = int64(*oid)
		}
		return nil
	}

	if _, isInt := ingest.IntValue(v); isInt {
		return nil
	}

	name, _ := ingest.StringValue(v)
	org, err := s.orgRepo.FindByName(strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to resolve organization %q: %w", name, err)
	}
	row["organization_id"] = int64(org.ID)
	return nil
}

// ValidateRows validates prepared rows against the canonical schema.
func (s *IngestService) ValidateRows(rows []ingest.Row) ([]ingest.Row, []ingest.RowError) {
	return ingest.ValidateRows(rows)
}

// CommitRows persists validated rows in one transaction. Fixed-point
// amounts become integers when exactly integral, floats otherwise, so
// storage sees one uniform numeric representation.
func (s *IngestService) CommitRows(rows []ingest.Row) (int, error) {
	now := time.Now()
	records := make([]map[string]any, len(rows))
	for i, row := range rows {
		record := make(map[string]any, len(row)+1)
		for field, v := range row {
			if d, ok := v.(decimal.Decimal); ok {
				record[field] = ingest.NormalizeNumber(d)
				continue
			}
			record[field] = v
		}
		record["added_at"] = now
		records[i] = record
	}

	if err := s.collectionRepo.BulkInsert(records); err != nil {
		return 0, fmt.Errorf("failed to insert batch: %w", err)
	}
	return len(records), nil
}

// IngestBatch runs prepare, validate, commit. Any row error rejects the
// entire batch: either every row persists or none does.
func (s *IngestService) IngestBatch(rows []ingest.Row, actor *Identity) (BatchResult, []ingest.RowError, error) {
	result := BatchResult{Received: len(rows)}
	if len(rows) == 0 {
		return result, nil, ErrNoRows
	}

	prepared, err := s.PrepareRows(rows, actor)
	if err != nil {
		return result, nil, err
	}

	valid, rowErrs := s.ValidateRows(prepared)
	result.Valid = len(valid)
	if len(rowErrs) > 0 {
		return result, rowErrs, nil
	}

	inserted, err := s.CommitRows(valid)
	if err != nil {
		return result, nil, err
	}
	result.Inserted = inserted
	return result, nil, nil
}

// UploadPreview is the pre-insert view of an uploaded table: the full
// mapped dataset plus the filtered default view, with mapping suggestions
// from previously saved header mappings.
type UploadPreview struct {
	Headers      []string          `json:"headers"`
	FullRows     []ingest.Row      `json:"full_rows"`
	FilteredRows []ingest.Row      `json:"filtered_rows"`
	Suggestions  map[string]string `json:"suggested_mappings"`
	SerialColumn string            `json:"guessed_serial_column"`
}

// PreviewUpload parses an uploaded spreadsheet/CSV and returns its preview
// without inserting anything.
func (s *IngestService) PreviewUpload(filename string, r io.Reader) (*UploadPreview, error) {
	headers, rows, err := ingest.ReadTable(filename, r)
	if err != nil {
		return nil, err
	}

	serialColumn, _ := ingest.GuessSerialColumn(headers)

	suggestions, err := s.collectionRepo.FindHeaderMappings(headers)
	if err != nil {
		return nil, fmt.Errorf("failed to load header mappings: %w", err)
	}

	return &UploadPreview{
		Headers:      headers,
		FullRows:     rows,
		FilteredRows: ingest.FilterBySerial(headers, rows),
		Suggestions:  suggestions,
		SerialColumn: serialColumn,
	}, nil
}

// IngestFile parses an uploaded spreadsheet/CSV, maps its columns onto the
// canonical schema, drops rows with a blank serial cell, and runs the batch
// pipeline on the rest.
func (s *IngestService) IngestFile(filename string, r io.Reader, actor *Identity) (BatchResult, []ingest.RowError, error) {
	headers, rows, err := ingest.ReadTable(filename, r)
	if err != nil {
		return BatchResult{}, nil, err
	}

	canonical := ingest.CanonicalFields()
	mapping := ingest.MapColumns(headers, canonical)
	mapped := ingest.ApplyMapping(rows, mapping)
	filtered := ingest.FilterBySerial(canonical, mapped)

	return s.IngestBatch(filtered, actor)
}
