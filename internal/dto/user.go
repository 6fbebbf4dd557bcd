package dto

import (
	"time"

	"github.com/ksc-migration/collections-api/internal/models"
)

// UserDTO represents a user account in API responses
type UserDTO struct {
	ID             uint64          `json:"id"`
	Username       string          `json:"username"`
	OrganizationID *uint64         `json:"organization_id"`
	Role           models.UserRole `json:"role"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
	}
}

// ToUserDTOs converts users to DTOs
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}

// LoginResponse represents a successful authentication
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UploaderDTO represents an uploader credential in API responses. The API
// key is only echoed on creation.
type UploaderDTO struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	APIKey         string    `json:"api_key,omitempty"`
	OrganizationID *uint64   `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToUploaderDTO converts an uploader to DTO, optionally revealing the key
func ToUploaderDTO(uploader models.Uploader, withKey bool) UploaderDTO {
	dto := UploaderDTO{
		ID:             uploader.ID,
		Name:           uploader.Name,
		OrganizationID: uploader.OrganizationID,
		CreatedAt:      uploader.CreatedAt,
	}
	if withKey {
		dto.APIKey = uploader.APIKey
	}
	return dto
}
