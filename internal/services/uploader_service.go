package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/ksc-migration/collections-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrUploaderNotFound    = errors.New("uploader not found")
	ErrInvalidUploaderName = errors.New("uploader name cannot be empty")
)

// UploaderService manages uploader credentials.
type UploaderService struct {
	uploaderRepo repository.UploaderRepository
}

// NewUploaderService creates a new UploaderService.
func NewUploaderService(uploaderRepo repository.UploaderRepository) *UploaderService {
	return &UploaderService{
		uploaderRepo: uploaderRepo,
	}
}

// CreateUploaderInput represents parameters to create an uploader.
type CreateUploaderInput struct {
	Name           string
	OrganizationID *uint64
}

// CreateUploader creates an uploader credential. When no organization is
// given the actor's organization is attached, so keys handed to a branch
// default that branch's rows correctly.
func (s *UploaderService) CreateUploader(input CreateUploaderInput, actor *Identity) (*models.Uploader, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidUploaderName
	}

	orgID := input.OrganizationID
	if orgID == nil {
		orgID = actor.OrganizationID()
	}

	uploader := &models.Uploader{
		Name:           strings.TrimSpace(input.Name),
		APIKey:         utils.GenerateOpaqueKey(),
		OrganizationID: orgID,
	}
	if err := s.uploaderRepo.Create(uploader); err != nil {
		return nil, fmt.Errorf("failed to create uploader: %w", err)
	}
	return uploader, nil
}

// ListUploaders returns all uploaders.
func (s *UploaderService) ListUploaders() ([]models.Uploader, error) {
	uploaders, err := s.uploaderRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list uploaders: %w", err)
	}
	return uploaders, nil
}

// GetUploaderByKey returns the uploader owning an API key.
func (s *UploaderService) GetUploaderByKey(apiKey string) (*models.Uploader, error) {
	uploader, err := s.uploaderRepo.FindByAPIKey(apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploaderNotFound
		}
		return nil, fmt.Errorf("failed to find uploader: %w", err)
	}
	return uploader, nil
}
