package service

import (
	"context"
	"errors"
	"time"

	"libraflow-backend/internal/config"
	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/logger"
	"libraflow-backend/internal/repository"
	"libraflow-backend/internal/security"
)

type authService struct {
	readerRepo repository.ReaderRepository
	staffRepo  repository.StaffRepository
	tokens     security.TokenManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(readerRepo repository.ReaderRepository, staffRepo repository.StaffRepository,
	tokens security.TokenManager, jwtCfg config.JWTConfig) AuthService {
	return &authService{
		readerRepo: readerRepo,
		staffRepo:  staffRepo,
		tokens:     tokens,
		accessTTL:  time.Duration(jwtCfg.AccessTokenExpiry) * time.Minute,
		refreshTTL: time.Duration(jwtCfg.RefreshTokenExpiry) * time.Minute,
	}
}

func (s *authService) Login(ctx context.Context, kind domain.PrincipalKind, email, password string) (string, string, error) {
	var (
		p    domain.Principal
		role string
	)

	switch kind {
	case domain.PrincipalKindReader:
		reader, err := s.readerRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", "", domain.ErrUnauthorized
			}
			return "", "", err
		}
		if !reader.CheckPassword(password) {
			logger.Warn("failed login attempt", "kind", kind, "email", email)
			return "", "", domain.ErrUnauthorized
		}
		p = domain.Principal{Kind: domain.PrincipalKindReader, ID: reader.ID}

	case domain.PrincipalKindStaff:
		staff, err := s.staffRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", "", domain.ErrUnauthorized
			}
			return "", "", err
		}
		if !staff.CheckPassword(password) {
			logger.Warn("failed login attempt", "kind", kind, "email", email)
			return "", "", domain.ErrUnauthorized
		}
		p = domain.Principal{Kind: domain.PrincipalKindStaff, ID: staff.ID}
		role = string(staff.Role)

	default:
		return "", "", &domain.ValidationError{Field: "kind", Reason: "unknown principal kind"}
	}

	access, err := s.tokens.GenerateAccessToken(p, email, role, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(p, email, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.ErrUnauthorized
	}

	p := claims.Principal()

	// Re-resolve the account so a revoked or missing account cannot keep
	// refreshing, and so the role claim stays current.
	var role string
	switch p.Kind {
	case domain.PrincipalKindReader:
		if _, err := s.readerRepo.GetByID(ctx, p.ID); err != nil {
			return "", "", domain.ErrUnauthorized
		}
	case domain.PrincipalKindStaff:
		staff, err := s.staffRepo.GetByID(ctx, p.ID)
		if err != nil {
			return "", "", domain.ErrUnauthorized
		}
		role = string(staff.Role)
	default:
		return "", "", domain.ErrUnauthorized
	}

	access, err := s.tokens.GenerateAccessToken(p, claims.Email, role, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	newRefresh, err := s.tokens.GenerateRefreshToken(p, claims.Email, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, newRefresh, nil
}
