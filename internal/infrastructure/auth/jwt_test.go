package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtServiceForTest(overrides ...func(*config.JWTConfig)) *JWTService {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "kivalao-backend",
		MaxRefreshCount:        10,
	}
	for _, o := range overrides {
		o(&cfg)
	}
	return NewJWTService(cfg)
}

func TestNewJWTService_FallsBackToSharedSecret(t *testing.T) {
	svc := jwtServiceForTest(func(cfg *config.JWTConfig) {
		cfg.RefreshSecret = ""
	})

	assert.Equal(t, svc.accessSecret, svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := jwtServiceForTest()
	partnerID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID: partnerID,
		Email:  "partner@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	t.Run("access token carries identity", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, partnerID.String(), claims.UserID)
		assert.Equal(t, "partner@example.com", claims.Email)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.Equal(t, "kivalao-backend", claims.Issuer)

		id, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, partnerID, id)
	})

	t.Run("refresh token starts at count zero without email", func(t *testing.T) {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, partnerID.String(), claims.UserID)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		assert.Zero(t, claims.RefreshCount)
		assert.Empty(t, claims.Email)
	})
}

func TestValidateAccessToken_Failures(t *testing.T) {
	svc := jwtServiceForTest()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "partner@example.com",
	})
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwtServiceForTest(func(cfg *config.JWTConfig) {
			cfg.AccessTokenExpiration = -time.Hour
		})
		pair, err := expired.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = expired.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := jwtServiceForTest(func(cfg *config.JWTConfig) {
			cfg.Secret = "a-completely-different-signing-key"
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := jwtServiceForTest()
	partnerID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID: partnerID,
		Email:  "old@example.com",
	})
	require.NoError(t, err)

	newPair, err := svc.RefreshTokenPair(pair.RefreshToken, "new@example.com")
	require.NoError(t, err)

	refreshClaims, err := svc.ValidateRefreshToken(newPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)

	// The caller-supplied email lands in the new access token.
	accessClaims, err := svc.ValidateAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", accessClaims.Email)
	assert.Equal(t, partnerID.String(), accessClaims.UserID)
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	svc := jwtServiceForTest(func(cfg *config.JWTConfig) {
		cfg.MaxRefreshCount = 1
	})

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	pair, err = svc.RefreshTokenPair(pair.RefreshToken, "")
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.RefreshToken, "")
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_RejectsAccessToken(t *testing.T) {
	svc := jwtServiceForTest()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.AccessToken, "")
	assert.Error(t, err)
}

func TestClaimsTimeAccessors(t *testing.T) {
	t.Run("empty claims return zero times", func(t *testing.T) {
		var c Claims
		assert.True(t, c.GetExpiresAtTime().IsZero())
		assert.True(t, c.GetIssuedAtTime().IsZero())
	})

	t.Run("issued tokens carry both timestamps", func(t *testing.T) {
		svc := jwtServiceForTest()
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.False(t, claims.GetIssuedAtTime().IsZero())
		assert.True(t, claims.GetExpiresAtTime().After(claims.GetIssuedAtTime()))
	})
}
