package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francolucas/habit-tracker/internal/store"
	"github.com/francolucas/habit-tracker/pkg/config"
	"github.com/francolucas/habit-tracker/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			JWTExpiryHours: 1,
			JWTIssuer:      "habit-tracker",
		},
	}
}

func newTestAuth() Service {
	return NewService(store.NewMemoryStore(), testConfig(), logger.NewLogger())
}

func TestRegister(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	identity, token, err := svc.Register(ctx, "User@Example.com", "correct-horse", "Lucas")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, identity.UserID)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, "Lucas", identity.DisplayName)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, claims.UserID)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "not-an-email", "correct-horse", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, _, err = svc.Register(ctx, "user@example.com", "short", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, _, err = svc.Register(ctx, "user@example.com", "correct-horse", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "USER@example.com", "another-pass", "")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestLogin(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "user@example.com", "correct-horse", "Lucas")
	require.NoError(t, err)

	identity, token, err := svc.Login(ctx, "user@example.com", "correct-horse", "test-agent", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, identity.UserID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "user@example.com", "wrong-password", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentAndLogout(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "user@example.com", "correct-horse", "Lucas")
	require.NoError(t, err)

	identity, err := svc.Current(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", identity.Email)

	require.NoError(t, svc.Logout(ctx, token))

	// A logged-out token never authenticates again.
	_, err = svc.Current(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Error(t, svc.Logout(ctx, "garbage-token"))
}

func TestWatchIdentity(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var seen []*Identity
	svc.WatchIdentity(watchCtx, func(identity *Identity) {
		seen = append(seen, identity)
	})

	_, token, err := svc.Register(ctx, "user@example.com", "correct-horse", "")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	require.NotNil(t, seen[0])
	assert.Equal(t, "user@example.com", seen[0].Email)

	require.NoError(t, svc.Logout(ctx, token))
	require.Len(t, seen, 2)
	// Signed out is reported as a nil identity.
	assert.Nil(t, seen[1])
}
