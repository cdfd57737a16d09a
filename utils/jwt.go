package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "RealEstateApp"

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
	ResetToken   TokenType = "reset"
)

const resetTokenTTL = time.Hour

type CustomClaims struct {
	Email string    `json:"email"`
	Roles []int     `json:"roles"`
	Type  TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// UserID is the subject of the token.
func (c *CustomClaims) UserID() string {
	return c.Subject
}

type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (m *TokenManager) ttl(typ TokenType) time.Duration {
	switch typ {
	case RefreshToken:
		return m.refreshTTL
	case ResetToken:
		return resetTokenTTL
	default:
		return m.accessTTL
	}
}

// GenerateToken signs an HS256 token of the given type. Every token gets a
// fresh jti so it can be revoked individually.
func (m *TokenManager) GenerateToken(userID, email string, roles []int, typ TokenType) (string, *CustomClaims, error) {
	now := time.Now()
	claims := &CustomClaims{
		Email: email,
		Roles: roles,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl(typ))),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

func (m *TokenManager) ParseToken(tokenString string, want TokenType) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if claims.Type != want {
		return nil, Unauthorized("invalid token type")
	}
	if claims.Subject == "" {
		return nil, Unauthorized("invalid user id in token")
	}
	return claims, nil
}
