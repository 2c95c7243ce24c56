package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"libraflow-backend/internal/config"
	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-test-secret-test-secret-1234",
		AccessTokenExpiry:  60,
		RefreshTokenExpiry: 60 * 24,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	tokens := security.NewTokenManager(testJWTConfig().Secret)

	reader, err := domain.NewReader("Reader", "reader@test.com", "", "password123", 5)
	assert.NoError(t, err)
	reader.ID = 1

	staff, err := domain.NewStaff("Staff", "staff@test.com", "password123", domain.StaffRoleLibrarian)
	assert.NoError(t, err)
	staff.ID = 2

	t.Run("ReaderSuccess", func(t *testing.T) {
		readerRepo := new(MockReaderRepo)
		staffRepo := new(MockStaffRepo)
		svc := NewAuthService(readerRepo, staffRepo, tokens, testJWTConfig())
		readerRepo.On("GetByEmail", ctx, "reader@test.com").Return(reader, nil)

		access, refresh, err := svc.Login(ctx, domain.PrincipalKindReader, "reader@test.com", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, domain.PrincipalKindReader, claims.PrincipalKind)
		assert.Equal(t, int32(1), claims.PrincipalID)
	})

	t.Run("StaffSuccessCarriesRole", func(t *testing.T) {
		readerRepo := new(MockReaderRepo)
		staffRepo := new(MockStaffRepo)
		svc := NewAuthService(readerRepo, staffRepo, tokens, testJWTConfig())
		staffRepo.On("GetByEmail", ctx, "staff@test.com").Return(staff, nil)

		access, _, err := svc.Login(ctx, domain.PrincipalKindStaff, "staff@test.com", "password123")
		assert.NoError(t, err)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, domain.PrincipalKindStaff, claims.PrincipalKind)
		assert.Equal(t, string(domain.StaffRoleLibrarian), claims.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		readerRepo := new(MockReaderRepo)
		staffRepo := new(MockStaffRepo)
		svc := NewAuthService(readerRepo, staffRepo, tokens, testJWTConfig())
		readerRepo.On("GetByEmail", ctx, "reader@test.com").Return(reader, nil)

		_, _, err := svc.Login(ctx, domain.PrincipalKindReader, "reader@test.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		readerRepo := new(MockReaderRepo)
		staffRepo := new(MockStaffRepo)
		svc := NewAuthService(readerRepo, staffRepo, tokens, testJWTConfig())
		readerRepo.On("GetByEmail", ctx, "nobody@test.com").Return(nil, domain.ErrNotFound)

		_, _, err := svc.Login(ctx, domain.PrincipalKindReader, "nobody@test.com", "password123")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	tokens := security.NewTokenManager(testJWTConfig().Secret)

	reader, _ := domain.NewReader("Reader", "reader@test.com", "", "password123", 5)
	reader.ID = 1

	t.Run("Success", func(t *testing.T) {
		readerRepo := new(MockReaderRepo)
		staffRepo := new(MockStaffRepo)
		svc := NewAuthService(readerRepo, staffRepo, tokens, testJWTConfig())
		readerRepo.On("GetByEmail", ctx, "reader@test.com").Return(reader, nil)
		readerRepo.On("GetByID", ctx, int32(1)).Return(reader, nil)

		_, refresh, err := svc.Login(ctx, domain.PrincipalKindReader, "reader@test.com", "password123")
		assert.NoError(t, err)

		access, newRefresh, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("AccessTokenRejected", func(t *testing.T) {
		readerRepo := new(MockReaderRepo)
		staffRepo := new(MockStaffRepo)
		svc := NewAuthService(readerRepo, staffRepo, tokens, testJWTConfig())
		readerRepo.On("GetByEmail", ctx, "reader@test.com").Return(reader, nil)

		access, _, err := svc.Login(ctx, domain.PrincipalKindReader, "reader@test.com", "password123")
		assert.NoError(t, err)

		// An access token must not work as a refresh token.
		_, _, err = svc.RefreshToken(ctx, access)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("DeletedAccountRejected", func(t *testing.T) {
		readerRepo := new(MockReaderRepo)
		staffRepo := new(MockStaffRepo)
		svc := NewAuthService(readerRepo, staffRepo, tokens, testJWTConfig())
		readerRepo.On("GetByEmail", ctx, "reader@test.com").Return(reader, nil)
		readerRepo.On("GetByID", ctx, int32(1)).Return(nil, domain.ErrNotFound)

		_, refresh, err := svc.Login(ctx, domain.PrincipalKindReader, "reader@test.com", "password123")
		assert.NoError(t, err)

		_, _, err = svc.RefreshToken(ctx, refresh)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
