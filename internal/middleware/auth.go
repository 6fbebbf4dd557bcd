package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ksc-migration/collections-api/internal/constants"
	apierrors "github.com/ksc-migration/collections-api/internal/errors"
	"github.com/ksc-migration/collections-api/internal/services"
)

// RequireCredential resolves the request's credential into an identity and
// stores it in the context. An X-API-Key header identifies an uploader and
// takes priority; an Authorization bearer token identifies a user.
func RequireCredential(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(constants.HeaderAPIKey)
		bearerToken := bearerFrom(c.GetHeader("Authorization"))

		identity, err := authService.ResolveCredentials(apiKey, bearerToken)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingCredential):
				apierrors.Unauthorized(c, "API key or bearer token required")
			case errors.Is(err, services.ErrExpiredCredential):
				apierrors.ExpiredCredential(c, "")
			case errors.Is(err, services.ErrInvalidCredential):
				apierrors.Unauthorized(c, "Invalid credential")
			default:
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, identity)
		c.Next()
	}
}

// OptionalCredential resolves a credential when one is present but lets
// anonymous requests through. A credential that is present but bad still
// fails, rather than silently downgrading to anonymous.
func OptionalCredential(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(constants.HeaderAPIKey)
		bearerToken := bearerFrom(c.GetHeader("Authorization"))
		if apiKey == "" && bearerToken == "" {
			c.Next()
			return
		}

		identity, err := authService.ResolveCredentials(apiKey, bearerToken)
		if err != nil {
			if errors.Is(err, services.ErrExpiredCredential) {
				apierrors.ExpiredCredential(c, "")
			} else {
				apierrors.Unauthorized(c, "Invalid credential")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, identity)
		c.Next()
	}
}

// RequireUser rejects uploader credentials: the endpoint is for humans with
// accounts, not upload keys.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).IsUser() {
			apierrors.Forbidden(c, "User account required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects everything but admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).IsAdmin() {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity installed by RequireCredential, or nil
// on unauthenticated routes.
func GetIdentity(c *gin.Context) *services.Identity {
	v, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return nil
	}
	identity, ok := v.(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}

func bearerFrom(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
