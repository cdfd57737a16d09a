package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, 24*time.Hour)

	token, claims, err := m.GenerateToken("u1", "a@example.com", []int{2, 5}, AccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := m.ParseToken(token, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.UserID())
	assert.Equal(t, "a@example.com", parsed.Email)
	assert.Equal(t, []int{2, 5}, parsed.Roles)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Equal(t, "RealEstateApp", parsed.Issuer)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, 24*time.Hour)
	token, _, err := m.GenerateToken("u1", "a@example.com", nil, RefreshToken)
	require.NoError(t, err)

	_, err = m.ParseToken(token, AccessToken)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenManager("other", time.Hour, time.Hour).GenerateToken("u1", "a@example.com", nil, AccessToken)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour, time.Hour).ParseToken(token, AccessToken)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", -time.Minute, time.Hour)
	token, _, err := m.GenerateToken("u1", "a@example.com", nil, AccessToken)
	require.NoError(t, err)

	_, err = m.ParseToken(token, AccessToken)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := &CustomClaims{
		Type: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "u1",
			Issuer:  "RealEstateApp",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour, time.Hour).ParseToken(token, AccessToken)
	assert.Error(t, err)
}
