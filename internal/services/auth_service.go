package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ksc-migration/collections-api/internal/constants"
	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/ksc-migration/collections-api/internal/utils"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotAuthorized      = errors.New("not authorized")

	// Credential resolution outcomes
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrExpiredCredential = errors.New("expired credential")
)

// Identity is the single actor produced by credential resolution: exactly
// one of Uploader or User is set. An uploader identity supplies default
// organization and source attribution for ingested rows; a user identity
// carries a role for authorization decisions.
type Identity struct {
	Uploader *models.Uploader
	User     *models.User
}

// OrganizationID returns the actor's default organization, if any.
func (id *Identity) OrganizationID() *uint64 {
	switch {
	case id == nil:
		return nil
	case id.Uploader != nil:
		return id.Uploader.OrganizationID
	case id.User != nil:
		return id.User.OrganizationID
	}
	return nil
}

// Source returns the default source attribution for ingested rows. Only
// uploader identities attribute a source.
func (id *Identity) Source() string {
	if id != nil && id.Uploader != nil {
		return id.Uploader.Name
	}
	return ""
}

// IsUser reports whether the identity is a human user.
func (id *Identity) IsUser() bool {
	return id != nil && id.User != nil
}

// IsAdmin reports whether the identity is a user with the admin role.
func (id *Identity) IsAdmin() bool {
	return id.IsUser() && id.User.Role == models.RoleAdmin
}

// AuthService handles user accounts, bearer tokens, and credential
// resolution.
type AuthService struct {
	userRepo     repository.UserRepository
	uploaderRepo repository.UploaderRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, uploaderRepo repository.UploaderRepository) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		uploaderRepo: uploaderRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username       string
	Password       string
	OrganizationID *uint64
	Role           string
}

// Register creates a new user. Creating any role other than uploader
// requires an admin actor.
func (s *AuthService) Register(input RegisterInput, actor *Identity) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := models.RoleUploader
	if input.Role != "" {
		role = models.UserRole(input.Role)
	}
	if role != models.RoleUploader && !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	salt := make([]byte, constants.PasswordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	user := &models.User{
		Username:       username,
		PasswordHash:   hashPassword(input.Password, salt),
		Salt:           hex.EncodeToString(salt),
		OrganizationID: input.OrganizationID,
		Role:           role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and issues a fresh bearer token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !verifyPassword(input.Password, user.Salt, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token := &models.Token{
		Token:  utils.GenerateOpaqueKey(),
		UserID: user.ID,
	}
	if err := s.userRepo.CreateToken(token); err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return user, token.Token, nil
}

// ResolveCredentials resolves inbound request credentials into exactly one
// identity. An API key wins over a bearer token; a key that resolves to no
// uploader fails rather than falling through to the token.
func (s *AuthService) ResolveCredentials(apiKey, bearerToken string) (*Identity, error) {
	if apiKey != "" {
		uploader, err := s.uploaderRepo.FindByAPIKey(apiKey)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredential
			}
			return nil, fmt.Errorf("failed to look up api key: %w", err)
		}
		return &Identity{Uploader: uploader}, nil
	}

	if bearerToken != "" {
		token, err := s.userRepo.FindToken(bearerToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredential
			}
			return nil, fmt.Errorf("failed to look up token: %w", err)
		}
		if time.Since(token.CreatedAt) > constants.TokenTTL {
			return nil, ErrExpiredCredential
		}
		user := token.User
		return &Identity{User: &user}, nil
	}

	return nil, ErrMissingCredential
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users; admin only.
func (s *AuthService) ListUsers(actor *Identity) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserInput carries an admin-driven user update. An empty password
// leaves the stored hash untouched.
type UpdateUserInput struct {
	Username       string
	Password       string
	OrganizationID *uint64
	Role           string
}

// UpdateUser updates a user's account; admin only.
func (s *AuthService) UpdateUser(id uint64, input UpdateUserInput, actor *Identity) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if username := strings.TrimSpace(input.Username); username != "" {
		user.Username = username
	}
	user.OrganizationID = input.OrganizationID
	if input.Role != "" {
		user.Role = models.UserRole(input.Role)
	}
	if input.Password != "" {
		if len(input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		salt := make([]byte, constants.PasswordSaltLength)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		user.PasswordHash = hashPassword(input.Password, salt)
		user.Salt = hex.EncodeToString(salt)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func hashPassword(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, constants.PasswordHashIterations, constants.PasswordKeyLength, sha256.New)
	return hex.EncodeToString(key)
}

func verifyPassword(password, saltHex, hash string) bool {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	computed := hashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
