package utils

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateOpaqueKey returns a 32-character hex credential string, used for
// uploader API keys and bearer tokens.
func GenerateOpaqueKey() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
