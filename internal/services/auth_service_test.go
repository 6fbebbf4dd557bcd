package services

import (
	"testing"
	"time"

	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestService(t *testing.T) (*gorm.DB, *AuthService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.Uploader{},
		&models.User{},
		&models.Token{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	uploaderRepo := repository.NewUploaderRepository(db)
	return db, NewAuthService(userRepo, uploaderRepo)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	_, svc := setupAuthTestService(t)

	user, err := svc.Register(RegisterInput{
		Username: "clerk",
		Password: "supersecret",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, models.RoleUploader, user.Role)
	require.NotEmpty(t, user.Salt)
	require.NotEqual(t, "supersecret", user.PasswordHash)

	logged, token, err := svc.Login(LoginInput{Username: "clerk", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)
	require.Len(t, token, 32)

	_, _, err = svc.Login(LoginInput{Username: "clerk", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterRejectsDuplicatesAndShortPasswords(t *testing.T) {
	_, svc := setupAuthTestService(t)

	_, err := svc.Register(RegisterInput{Username: "clerk", Password: "supersecret"}, nil)
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "clerk", Password: "supersecret"}, nil)
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(RegisterInput{Username: "other", Password: "short"}, nil)
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_AdminRoleNeedsAdminActor(t *testing.T) {
	_, svc := setupAuthTestService(t)

	_, err := svc.Register(RegisterInput{
		Username: "boss",
		Password: "supersecret",
		Role:     string(models.RoleAdmin),
	}, nil)
	require.ErrorIs(t, err, ErrNotAuthorized)

	admin := &Identity{User: &models.User{Role: models.RoleAdmin}}
	user, err := svc.Register(RegisterInput{
		Username: "boss",
		Password: "supersecret",
		Role:     string(models.RoleAdmin),
	}, admin)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, user.Role)
}

func TestAuthService_ResolveCredentials(t *testing.T) {
	db, svc := setupAuthTestService(t)

	_, err := svc.ResolveCredentials("", "")
	require.ErrorIs(t, err, ErrMissingCredential)

	_, err = svc.ResolveCredentials("no-such-key", "")
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.ResolveCredentials("", "no-such-token")
	require.ErrorIs(t, err, ErrInvalidCredential)

	orgID := uint64(3)
	uploader := &models.Uploader{Name: "Mwera Scanner", APIKey: "key-123", OrganizationID: &orgID}
	require.NoError(t, db.Create(uploader).Error)

	identity, err := svc.ResolveCredentials("key-123", "")
	require.NoError(t, err)
	require.NotNil(t, identity.Uploader)
	require.Equal(t, "Mwera Scanner", identity.Source())
	require.Equal(t, orgID, *identity.OrganizationID())
	require.False(t, identity.IsUser())

	// An API key takes priority: a bad key fails even with a valid token
	_, err = svc.ResolveCredentials("bogus", "also-irrelevant")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthService_TokenExpiry(t *testing.T) {
	db, svc := setupAuthTestService(t)

	user, err := svc.Register(RegisterInput{Username: "clerk", Password: "supersecret"}, nil)
	require.NoError(t, err)

	_, token, err := svc.Login(LoginInput{Username: "clerk", Password: "supersecret"})
	require.NoError(t, err)

	backdate := func(age time.Duration) {
		err := db.Model(&models.Token{}).
			Where("token = ?", token).
			Update("created_at", time.Now().Add(-age)).Error
		require.NoError(t, err)
	}

	backdate(59 * time.Minute)
	identity, err := svc.ResolveCredentials("", token)
	require.NoError(t, err)
	require.True(t, identity.IsUser())
	require.Equal(t, user.ID, identity.User.ID)

	backdate(61 * time.Minute)
	_, err = svc.ResolveCredentials("", token)
	require.ErrorIs(t, err, ErrExpiredCredential)
}
