package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{Secret: "test-secret", Expiry: expiry, Issuer: "institutions-test"})
}

func TestGenerateAndValidate(t *testing.T) {
	m := newManager(time.Hour)

	token, jti, err := m.GenerateAccessToken(7, "jdoe", RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := newManager(-time.Minute)

	token, _, err := m.GenerateAccessToken(1, "jdoe", RoleAdmin)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	other := NewJWTManager(JWTConfig{Secret: "other", Expiry: time.Hour, Issuer: "institutions-test"})
	token, _, err := other.GenerateAccessToken(1, "jdoe", RoleAdmin)
	require.NoError(t, err)

	_, err = newManager(time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
