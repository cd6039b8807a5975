package service

import (
	"testing"
	"time"

	"github.com/sjoh/foundly-backend/internal/app/model"
	"github.com/sjoh/foundly-backend/internal/app/repository"
	"github.com/sjoh/foundly-backend/internal/db"
	"github.com/sjoh/foundly-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupAuthService(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	svc := NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	return svc, testDB
}

func TestRegister(t *testing.T) {
	svc, testDB := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	user, tokens, err := svc.Register("alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	require.NotNil(t, tokens)
	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, testDB := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register("alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Register("alice@example.com", "different456", "Other Alice")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, testDB := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	registered, _, err := svc.Register("bob@example.com", "password123", "Bob")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, tokens, err := svc.Login("bob@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login("bob@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetUserByID(t *testing.T) {
	svc, testDB := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	registered, _, err := svc.Register("carol@example.com", "password123", "Carol")
	require.NoError(t, err)

	user, err := svc.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", user.Email)

	_, err = svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, testDB := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	registered, _, err := svc.Register("dave@example.com", "password123", "Dave")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(registered.ID, "David")
	require.NoError(t, err)
	assert.Equal(t, "David", updated.Name)

	// Blank name keeps the old one
	updated, err = svc.UpdateProfile(registered.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "David", updated.Name)

	_, err = svc.UpdateProfile(9999, "Ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
