package repository

import (
	"github.com/ksc-migration/collections-api/internal/models"
	"gorm.io/gorm"
)

// GormUploaderRepository is a GORM implementation of UploaderRepository
type GormUploaderRepository struct {
	db *gorm.DB
}

// NewUploaderRepository creates a new UploaderRepository
func NewUploaderRepository(db *gorm.DB) UploaderRepository {
	return &GormUploaderRepository{db: db}
}

// Create creates a new uploader
func (r *GormUploaderRepository) Create(uploader *models.Uploader) error {
	return r.db.Create(uploader).Error
}

// FindByAPIKey finds an uploader by its API key
func (r *GormUploaderRepository) FindByAPIKey(key string) (*models.Uploader, error) {
	var uploader models.Uploader
	if err := r.db.Where("api_key = ?", key).First(&uploader).Error; err != nil {
		return nil, err
	}
	return &uploader, nil
}

// List returns all uploaders
func (r *GormUploaderRepository) List() ([]models.Uploader, error) {
	var uploaders []models.Uploader
	if err := r.db.Order("id").Find(&uploaders).Error; err != nil {
		return nil, err
	}
	return uploaders, nil
}
