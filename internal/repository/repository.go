package repository

import (
	"time"

	"github.com/ksc-migration/collections-api/internal/models"
)

// OrganizationRepository defines the interface for organization reference data
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByName finds an organization by exact name
	FindByName(name string) (*models.Organization, error)

	// List returns all organizations
	List() ([]models.Organization, error)

	// Count returns the number of organizations
	Count() (int64, error)
}

// UploaderRepository defines the interface for uploader credential data
type UploaderRepository interface {
	// Create creates a new uploader
	Create(uploader *models.Uploader) error

	// FindByAPIKey finds an uploader by its API key
	FindByAPIKey(key string) (*models.Uploader, error)

	// List returns all uploaders
	List() ([]models.Uploader, error)
}

// UserRepository defines the interface for user and token data
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns all users
	List() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// CreateToken stores a bearer token for a user
	CreateToken(token *models.Token) error

	// FindToken finds a token with its user preloaded
	FindToken(token string) (*models.Token, error)
}

// MemberFilter holds filtering options for listing members
type MemberFilter struct {
	// Query matches the member name as a substring, or the member code
	// exactly when numeric.
	Query    string
	Page     int
	PageSize int
}

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	// CreateAllocatingSno creates a member, allocating a unique sequence
	// number inside a single transaction. A requested sno that already
	// exists is silently replaced by max(sno)+1.
	CreateAllocatingSno(member *models.Member, requested *int64) error

	// FindByID finds a member by ID
	FindByID(id uint64) (*models.Member, error)

	// List retrieves members with filtering and pagination
	List(filter MemberFilter) ([]models.Member, int64, error)

	// Update updates a member
	Update(member *models.Member) error

	// DeduplicateBySno removes members sharing a sequence number, keeping
	// the lowest internal id per group. Idempotent; returns rows removed.
	DeduplicateBySno() (int64, error)
}

// CollectionRepository defines the interface for collection record data
type CollectionRepository interface {
	// Create creates a single collection record
	Create(record *models.CollectionRecord) error

	// BulkInsert commits column-keyed rows in one transaction; on error no
	// row is persisted.
	BulkInsert(rows []map[string]any) error

	// UpdateColumns applies a partial update of whitelisted columns
	UpdateColumns(id uint64, columns map[string]any) error

	// ListByDateRange returns records whose collection date (s2) falls in
	// the inclusive range; nil bounds are open.
	ListByDateRange(from, to *time.Time) ([]models.CollectionRecord, error)

	// ListCodes returns all collection code labels
	ListCodes() ([]models.CollectionCode, error)

	// CreateCode creates a collection code label
	CreateCode(code *models.CollectionCode) error

	// FindCodeByID finds a collection code label by ID
	FindCodeByID(id uint64) (*models.CollectionCode, error)

	// UpdateCode updates a collection code label
	UpdateCode(code *models.CollectionCode) error

	// CountCodes returns the number of collection code labels
	CountCodes() (int64, error)

	// FindHeaderMappings returns persisted header -> column mappings for
	// the given headers
	FindHeaderMappings(headers []string) (map[string]string, error)

	// UpsertHeaderMappings saves header -> column mappings
	UpsertHeaderMappings(mappings []models.HeaderMapping) error
}
