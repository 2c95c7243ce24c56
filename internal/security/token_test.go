package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"libraflow-backend/internal/domain"
)

const testSecret = "test-secret-test-secret-test-secret-1234"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret)
	p := domain.Principal{Kind: domain.PrincipalKindStaff, ID: 42}

	token, err := m.GenerateAccessToken(p, "staff@test.com", "ADMIN", time.Hour)
	assert.NoError(t, err)

	claims, err := m.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), claims.PrincipalID)
	assert.Equal(t, domain.PrincipalKindStaff, claims.PrincipalKind)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, p, claims.Principal())
}

func TestTokenManager_RefreshType(t *testing.T) {
	m := NewTokenManager(testSecret)
	p := domain.Principal{Kind: domain.PrincipalKindReader, ID: 1}

	token, err := m.GenerateRefreshToken(p, "reader@test.com", time.Hour)
	assert.NoError(t, err)

	claims, err := m.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(testSecret)
	p := domain.Principal{Kind: domain.PrincipalKindReader, ID: 1}

	token, err := m.GenerateAccessToken(p, "reader@test.com", "", -time.Minute)
	assert.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	m := NewTokenManager(testSecret)
	other := NewTokenManager("another-secret-another-secret-another-00")
	p := domain.Principal{Kind: domain.PrincipalKindReader, ID: 1}

	token, err := m.GenerateAccessToken(p, "reader@test.com", "", time.Hour)
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
