package models

import "time"

type UserRole string

const (
	RoleUploader UserRole = "uploader"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Username       string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash   string    `gorm:"type:varchar(128);not null" json:"-"`
	Salt           string    `gorm:"type:varchar(64);not null" json:"-"`
	OrganizationID *uint64   `json:"organization_id"`
	Role           UserRole  `gorm:"type:varchar(20);not null;default:'uploader'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
