package repository

import (
	"time"

	"github.com/ksc-migration/collections-api/internal/models"
	"gorm.io/gorm"
)

// GormCollectionRepository is a GORM implementation of CollectionRepository
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &GormCollectionRepository{db: db}
}

// Create creates a single collection record
func (r *GormCollectionRepository) Create(record *models.CollectionRecord) error {
	return r.db.Create(record).Error
}

// BulkInsert commits column-keyed rows in a single transaction. The batch
// is all-or-nothing: any failure rolls back every row.
func (r *GormCollectionRepository) BulkInsert(rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Model(&models.CollectionRecord{}).Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateColumns applies a partial update of whitelisted columns
func (r *GormCollectionRepository) UpdateColumns(id uint64, columns map[string]any) error {
	res := r.db.Model(&models.CollectionRecord{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByDateRange returns records whose collection date falls in the
// inclusive range; a nil bound leaves that side open.
func (r *GormCollectionRepository) ListByDateRange(from, to *time.Time) ([]models.CollectionRecord, error) {
	query := r.db.Model(&models.CollectionRecord{})
	if from != nil {
		query = query.Where("s2 >= ?", *from)
	}
	if to != nil {
		query = query.Where("s2 <= ?", *to)
	}

	var records []models.CollectionRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListCodes returns all collection code labels
func (r *GormCollectionRepository) ListCodes() ([]models.CollectionCode, error) {
	var codes []models.CollectionCode
	if err := r.db.Order("id").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// CreateCode creates a collection code label
func (r *GormCollectionRepository) CreateCode(code *models.CollectionCode) error {
	return r.db.Create(code).Error
}

// FindCodeByID finds a collection code label by ID
func (r *GormCollectionRepository) FindCodeByID(id uint64) (*models.CollectionCode, error) {
	var code models.CollectionCode
	if err := r.db.First(&code, id).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

// UpdateCode updates a collection code label
func (r *GormCollectionRepository) UpdateCode(code *models.CollectionCode) error {
	return r.db.Save(code).Error
}

// CountCodes returns the number of collection code labels
func (r *GormCollectionRepository) CountCodes() (int64, error) {
	var count int64
	err := r.db.Model(&models.CollectionCode{}).Count(&count).Error
	return count, err
}

// FindHeaderMappings returns persisted header -> column mappings for the
// given headers; headers never seen before are simply absent.
func (r *GormCollectionRepository) FindHeaderMappings(headers []string) (map[string]string, error) {
	out := make(map[string]string)
	if len(headers) == 0 {
		return out, nil
	}
	var mappings []models.HeaderMapping
	if err := r.db.Where("header_name IN ?", headers).Find(&mappings).Error; err != nil {
		return nil, err
	}
	for _, m := range mappings {
		out[m.HeaderName] = m.MappedColumn
	}
	return out, nil
}

// UpsertHeaderMappings saves header -> column mappings, updating mappings
// for headers that already exist.
func (r *GormCollectionRepository) UpsertHeaderMappings(mappings []models.HeaderMapping) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range mappings {
			if m.HeaderName == "" || m.MappedColumn == "" {
				continue
			}
			res := tx.Model(&models.HeaderMapping{}).
				Where("header_name = ?", m.HeaderName).
				Update("mapped_column", m.MappedColumn)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if err := tx.Create(&models.HeaderMapping{
					HeaderName:   m.HeaderName,
					MappedColumn: m.MappedColumn,
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
