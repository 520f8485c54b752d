package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Storefront Backend"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager(testConfig())

	token, err := mgr.GenerateAccessToken(42, "jane@example.com", true)
	require.NoError(t, err)

	claims, err := mgr.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenIsNotAccessToken(t *testing.T) {
	mgr := NewJWTManager(testConfig())

	token, err := mgr.GenerateRefreshToken(7, "joe@example.com")
	require.NoError(t, err)

	_, err = mgr.ValidateAccessToken(token)
	assert.Error(t, err)

	claims, err := mgr.ValidateRefreshToken(token)
	require.NoError(t, err)
	// Admin status must never ride on a refresh token
	assert.False(t, claims.IsAdmin)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	mgr := NewJWTManager(testConfig())

	token, err := mgr.GenerateAccessToken(1, "a@example.com", false)
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

func TestPasswordHashAndVerify(t *testing.T) {
	mgr := NewPasswordManager(testConfig())

	hash, err := mgr.HashPassword("s3cretpw")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpw", hash)

	assert.NoError(t, mgr.VerifyPassword("s3cretpw", hash))
	assert.Error(t, mgr.VerifyPassword("wrongpw", hash))
}

func TestPasswordValidation(t *testing.T) {
	mgr := NewPasswordManager(testConfig())

	_, err := mgr.HashPassword("short")
	assert.Error(t, err)
}
