package service

import (
	"context"
	"testing"
	"time"

	"github.com/sjoh/foundly-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySessionStore is an in-memory SessionStore for tests
type memorySessionStore struct {
	sessions map[string]time.Duration
	storeErr error
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]time.Duration{}}
}

func (s *memorySessionStore) Store(_ context.Context, token string, expiry time.Duration) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	s.sessions[token] = expiry
	return nil
}

func (s *memorySessionStore) IsActive(_ context.Context, token string) (bool, error) {
	_, ok := s.sessions[token]
	return ok, nil
}

func (s *memorySessionStore) Revoke(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func adminTestConfig() config.AdminConfig {
	return config.AdminConfig{
		Username:      "admin",
		Password:      "4321",
		SessionExpiry: 12 * time.Hour,
	}
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAdminService(adminTestConfig(), newMemorySessionStore())
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong username", "root", "4321"},
		{"wrong password", "admin", "1234"},
		{"both wrong", "root", "1234"},
		{"empty", "", ""},
		{"password as username", "4321", "admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tc.username, tc.password)
			assert.ErrorIs(t, err, ErrInvalidAdminCredentials)
		})
	}
}

func TestAdminSessionLifecycle(t *testing.T) {
	store := newMemorySessionStore()
	svc := NewAdminService(adminTestConfig(), store)
	ctx := context.Background()

	token, expiry, err := svc.Login(ctx, "admin", "4321")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 12*time.Hour, expiry)
	assert.Equal(t, 12*time.Hour, store.sessions[token])

	active, err := svc.IsSessionActive(ctx, token)
	require.NoError(t, err)
	assert.True(t, active)

	// Unknown tokens never check out
	active, err = svc.IsSessionActive(ctx, "not-a-session")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, svc.Logout(ctx, token))
	active, err = svc.IsSessionActive(ctx, token)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestAdminLoginStoreFailure(t *testing.T) {
	store := newMemorySessionStore()
	store.storeErr = assert.AnError
	svc := NewAdminService(adminTestConfig(), store)

	_, _, err := svc.Login(context.Background(), "admin", "4321")
	assert.ErrorIs(t, err, assert.AnError)
}
