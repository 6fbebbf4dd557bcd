package constants

import "time"

// Context keys
const (
	ContextKeyIdentity = "identity"
)

// Credential headers
const (
	HeaderAPIKey = "X-API-Key"
)

// TokenTTL is the validity window of a bearer token after creation.
const TokenTTL = time.Hour

// Password hashing parameters (PBKDF2-HMAC-SHA256)
const (
	PasswordHashIterations = 100_000
	PasswordSaltLength     = 16
	PasswordKeyLength      = 32
	MinPasswordLength      = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 500
)
