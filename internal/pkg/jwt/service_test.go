package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *HMACService {
	t.Helper()
	svc, err := NewHMACService(Options{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessExpiresIn:  time.Hour,
		RefreshExpiresIn: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestNewHMACService_MissingSecret(t *testing.T) {
	_, err := NewHMACService(Options{RefreshSecret: "r", AccessExpiresIn: time.Hour, RefreshExpiresIn: time.Hour})

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "JWT_ACCESS_SECRET", cfgErr.Setting)

	_, err = NewHMACService(Options{AccessSecret: "a", AccessExpiresIn: time.Hour, RefreshExpiresIn: time.Hour})
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "JWT_REFRESH_SECRET", cfgErr.Setting)
}

func TestZeroServiceReportsConfigurationError(t *testing.T) {
	var svc HMACService
	_, err := svc.GenerateAccessToken(uuid.New())

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)
	id := uuid.New()

	tok, err := svc.GenerateAccessToken(id)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	svc := newTestService(t)
	id := uuid.New()

	access, err := svc.GenerateAccessToken(id)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken(id)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokensDifferWithinTheSameSecond(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t).WithClock(func() time.Time { return fixed })
	id := uuid.New()

	a, expA, err := svc.GenerateRefreshToken(id)
	require.NoError(t, err)
	b, expB, err := svc.GenerateRefreshToken(id)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, expA, expB)
	assert.Equal(t, fixed.Add(svc.RefreshTokenTTL()), expA)
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService(t)
	past := svc.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	tok, err := past.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTamperedAndForeignTokens(t *testing.T) {
	svc := newTestService(t)
	other, err := NewHMACService(Options{
		AccessSecret:     "other",
		RefreshSecret:    "other",
		AccessExpiresIn:  time.Hour,
		RefreshExpiresIn: time.Hour,
	})
	require.NoError(t, err)

	foreign, err := other.GenerateAccessToken(uuid.New())
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(foreign)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.ValidateAccessToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateRejectsNilUser(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GenerateAccessToken(uuid.Nil)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
