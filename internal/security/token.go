package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"libraflow-backend/internal/domain"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// PrincipalClaims carries the authenticated principal. The principal kind
// (reader vs staff) is fixed at login; downstream code never probes both
// account tables to identify the caller.
type PrincipalClaims struct {
	PrincipalID   int32                `json:"principal_id"`
	PrincipalKind domain.PrincipalKind `json:"principal_kind"`
	Email         string               `json:"email,omitempty"`
	Role          string               `json:"role,omitempty"`
	Type          TokenType            `json:"type"`
	jwt.RegisteredClaims
}

// Principal reconstructs the tagged principal from the claims.
func (c *PrincipalClaims) Principal() domain.Principal {
	return domain.Principal{Kind: c.PrincipalKind, ID: c.PrincipalID}
}

type TokenManager interface {
	GenerateAccessToken(p domain.Principal, email, role string, expiry time.Duration) (string, error)
	GenerateRefreshToken(p domain.Principal, email string, expiry time.Duration) (string, error)
	ValidateToken(tokenString string) (*PrincipalClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) GenerateAccessToken(p domain.Principal, email, role string, expiry time.Duration) (string, error) {
	claims := PrincipalClaims{
		PrincipalID:   p.ID,
		PrincipalKind: p.Kind,
		Email:         email,
		Role:          role,
		Type:          TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(p.ID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "libraflow-auth",
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) GenerateRefreshToken(p domain.Principal, email string, expiry time.Duration) (string, error) {
	claims := PrincipalClaims{
		PrincipalID:   p.ID,
		PrincipalKind: p.Kind,
		Email:         email,
		Type:          TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(p.ID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "libraflow-auth",
			Audience:  jwt.ClaimStrings{"token-refresh"},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*PrincipalClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PrincipalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*PrincipalClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
