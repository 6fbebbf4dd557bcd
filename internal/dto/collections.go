package dto

import (
	"github.com/ksc-migration/collections-api/internal/ingest"
	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/services"
)

// IdentityDTO describes the resolved actor of a request
type IdentityDTO struct {
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	OrganizationID *uint64 `json:"organization_id"`
}

// ToIdentityDTO converts a resolved identity to DTO
func ToIdentityDTO(identity *services.Identity) IdentityDTO {
	switch {
	case identity == nil:
		return IdentityDTO{}
	case identity.Uploader != nil:
		return IdentityDTO{
			Type:           "uploader",
			Name:           identity.Uploader.Name,
			OrganizationID: identity.Uploader.OrganizationID,
		}
	default:
		return IdentityDTO{
			Type:           "user",
			Name:           identity.User.Username,
			OrganizationID: identity.User.OrganizationID,
		}
	}
}

// UploadPreviewResponse is the pre-insert view of an uploaded table
type UploadPreviewResponse struct {
	Identity     IdentityDTO       `json:"identity"`
	Headers      []string          `json:"headers"`
	FullRows     []ingest.Row      `json:"full_rows"`
	FilteredRows []ingest.Row      `json:"filtered_rows"`
	Suggestions  map[string]string `json:"suggested_mappings"`
	SerialColumn string            `json:"guessed_serial_column"`
}

// ToUploadPreviewResponse combines a parsed upload with the actor
func ToUploadPreviewResponse(preview *services.UploadPreview, identity *services.Identity) UploadPreviewResponse {
	return UploadPreviewResponse{
		Identity:     ToIdentityDTO(identity),
		Headers:      preview.Headers,
		FullRows:     preview.FullRows,
		FilteredRows: preview.FilteredRows,
		Suggestions:  preview.Suggestions,
		SerialColumn: preview.SerialColumn,
	}
}

// BatchRejectionResponse echoes a rejected batch: nothing was inserted, and
// the caller gets every row error plus the rows as received for correction.
type BatchRejectionResponse struct {
	Received         int               `json:"received"`
	ValidationErrors []ingest.RowError `json:"validation_errors"`
	Rows             []ingest.Row      `json:"rows"`
}

// ValidationResponse is the outcome of a dry-run validation: every row
// error found, plus only the rows that passed, normalized as they would be
// committed.
type ValidationResponse struct {
	Received int               `json:"received"`
	Valid    int               `json:"valid"`
	Errors   []ingest.RowError `json:"errors"`
	Rows     []ingest.Row      `json:"rows"`
}

// MemberListResponse represents a paginated list of members
type MemberListResponse struct {
	Members  []models.Member `json:"members"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}
