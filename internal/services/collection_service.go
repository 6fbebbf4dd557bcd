package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ksc-migration/collections-api/internal/ingest"
	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound = errors.New("collection record not found")
	ErrCodeNotFound       = errors.New("collection code not found")
	ErrInvalidColumnName  = errors.New("column name cannot be empty")
)

// CollectionService manages stored collection records, their column code
// labels, and the persisted header mappings.
type CollectionService struct {
	collectionRepo repository.CollectionRepository
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(collectionRepo repository.CollectionRepository) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
	}
}

// ListCodes returns all collection code labels.
func (s *CollectionService) ListCodes() ([]models.CollectionCode, error) {
	codes, err := s.collectionRepo.ListCodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list collection codes: %w", err)
	}
	return codes, nil
}

// CreateCode creates a collection code label for a column.
func (s *CollectionService) CreateCode(columnName string, code *string) (*models.CollectionCode, error) {
	columnName = strings.TrimSpace(columnName)
	if columnName == "" {
		return nil, ErrInvalidColumnName
	}

	record := &models.CollectionCode{ColumnName: columnName, Code: code}
	if err := s.collectionRepo.CreateCode(record); err != nil {
		return nil, fmt.Errorf("failed to create collection code: %w", err)
	}
	return record, nil
}

// UpdateCode updates the label of an existing collection code.
func (s *CollectionService) UpdateCode(id uint64, code *string) (*models.CollectionCode, error) {
	record, err := s.collectionRepo.FindCodeByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to find collection code: %w", err)
	}

	record.Code = code
	if err := s.collectionRepo.UpdateCode(record); err != nil {
		return nil, fmt.Errorf("failed to update collection code: %w", err)
	}
	return record, nil
}

// HeaderMappings returns the saved header -> column mappings for a set of
// spreadsheet headers. Headers never mapped before are absent.
func (s *CollectionService) HeaderMappings(headers []string) (map[string]string, error) {
	mappings, err := s.collectionRepo.FindHeaderMappings(headers)
	if err != nil {
		return nil, fmt.Errorf("failed to load header mappings: %w", err)
	}
	return mappings, nil
}

// SaveHeaderMappings persists header -> column mappings so later uploads of
// the same file layout get them suggested automatically.
func (s *CollectionService) SaveHeaderMappings(mappings map[string]string) error {
	records := make([]models.HeaderMapping, 0, len(mappings))
	for header, column := range mappings {
		records = append(records, models.HeaderMapping{
			HeaderName:   strings.TrimSpace(header),
			MappedColumn: strings.TrimSpace(column),
		})
	}
	if err := s.collectionRepo.UpsertHeaderMappings(records); err != nil {
		return fmt.Errorf("failed to save header mappings: %w", err)
	}
	return nil
}

// UpdateRecord applies a partial update to a stored collection record.
// Only canonical schema columns are writable; the internal id and unknown
// keys are dropped. Values are coerced to the column's type, and a blank
// value clears the column.
func (s *CollectionService) UpdateRecord(id uint64, updates map[string]any) ([]ingest.FieldError, error) {
	columns := make(map[string]any)
	var fieldErrs []ingest.FieldError

	for _, f := range ingest.Schema() {
		v, present := updates[f.Name]
		if !present {
			continue
		}
		if ingest.IsBlank(v) {
			columns[f.Name] = nil
			continue
		}

		coerced, fieldErr := coerceField(f, v)
		if fieldErr != nil {
			fieldErrs = append(fieldErrs, *fieldErr)
			continue
		}
		columns[f.Name] = coerced
	}
	if len(fieldErrs) > 0 {
		return fieldErrs, nil
	}
	if len(columns) == 0 {
		return nil, nil
	}

	if err := s.collectionRepo.UpdateColumns(id, columns); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to update collection record: %w", err)
	}
	return nil, nil
}

func coerceField(f ingest.FieldSpec, v any) (any, *ingest.FieldError) {
	switch f.Kind {
	case ingest.KindString:
		s, ok := ingest.StringValue(v)
		if !ok {
			return nil, &ingest.FieldError{Field: f.Name, Reason: "required"}
		}
		return s, nil
	case ingest.KindInt:
		n, ok := ingest.IntValue(v)
		if !ok {
			return nil, &ingest.FieldError{Field: f.Name, Reason: "must be an integer"}
		}
		return n, nil
	case ingest.KindDateTime:
		t, ok := ingest.TimeValue(v)
		if !ok {
			return nil, &ingest.FieldError{Field: f.Name, Reason: "must be a valid datetime"}
		}
		return t, nil
	default:
		d, ok := ingest.NumberValue(v)
		if !ok {
			return nil, &ingest.FieldError{Field: f.Name, Reason: "must be a number"}
		}
		return ingest.NormalizeNumber(d), nil
	}
}

// Report returns collection records whose collection date falls inside the
// inclusive range. Nil bounds leave that side open.
func (s *CollectionService) Report(from, to *time.Time) ([]models.CollectionRecord, error) {
	records, err := s.collectionRepo.ListByDateRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	return records, nil
}
