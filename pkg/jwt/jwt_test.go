package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(now *time.Time) *tokenManager {
	store := NewMemoryRevocationStore().(*memoryRevocationStore)
	store.now = func() time.Time { return *now }
	return &tokenManager{secretKey: "test-secret", store: store, now: func() time.Time { return *now }}
}

func TestGenerateAndValidate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := newTestManager(&now)
	ctx := context.Background()

	access, refresh, err := tm.GenerateToken(7, "alice", 30*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	claims, err := tm.ValidateAccessToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	claims, err = tm.ValidateRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	now := time.Now()
	tm := newTestManager(&now)
	ctx := context.Background()

	access, refresh, err := tm.GenerateToken(1, "bob", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = tm.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredAccessToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := newTestManager(&now)

	access, _, err := tm.GenerateToken(1, "bob", time.Minute, time.Hour)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = tm.ValidateAccessToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongSecret(t *testing.T) {
	now := time.Now()
	tm := newTestManager(&now)
	access, _, err := tm.GenerateToken(1, "bob", time.Minute, time.Hour)
	require.NoError(t, err)

	other := newTestManager(&now)
	other.secretKey = "another-secret"
	_, err = other.ValidateAccessToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevokeToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := newTestManager(&now)
	ctx := context.Background()

	access, refresh, err := tm.GenerateToken(3, "carol", 30*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	require.NoError(t, tm.RevokeToken(ctx, access))
	require.NoError(t, tm.RevokeToken(ctx, refresh))

	_, err = tm.ValidateAccessToken(ctx, access)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = tm.RefreshToken(ctx, refresh, time.Minute)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// the blacklist entry lapses together with the token itself
	now = now.Add(25 * time.Hour)
	revoked, err := tm.IsTokenRevoked(ctx, refresh)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRefreshToken(t *testing.T) {
	now := time.Now()
	tm := newTestManager(&now)
	ctx := context.Background()

	_, refresh, err := tm.GenerateToken(9, "dave", time.Minute, time.Hour)
	require.NoError(t, err)

	access, err := tm.RefreshToken(ctx, refresh, 5*time.Minute)
	require.NoError(t, err)
	claims, err := tm.ValidateAccessToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
}

func TestRevokeWithoutStore(t *testing.T) {
	tm := NewTokenManager("secret", nil)
	access, _, err := tm.GenerateToken(1, "x", time.Minute, time.Hour)
	require.NoError(t, err)
	assert.Error(t, tm.RevokeToken(context.Background(), access))

	revoked, err := tm.IsTokenRevoked(context.Background(), access)
	require.NoError(t, err)
	assert.False(t, revoked)
}
