package models

import "time"

// Uploader is a machine credential identity representing a batch data
// source, identified solely by its API key after creation.
type Uploader struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(200);not null" json:"name"`
	APIKey         string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"api_key"`
	OrganizationID *uint64   `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
