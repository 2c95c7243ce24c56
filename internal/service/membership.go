package service

import (
	"context"
	"errors"

	"libraflow-backend/internal/config"
	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

type membershipService struct {
	readerRepo repository.ReaderRepository
	policy     config.CirculationConfig
}

func NewMembershipService(readerRepo repository.ReaderRepository, policy config.CirculationConfig) MembershipService {
	return &membershipService{readerRepo: readerRepo, policy: policy}
}

func (s *membershipService) RegisterReader(ctx context.Context, name, email, phone, password string) (*domain.Reader, error) {
	existing, err := s.readerRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Businessf("an account with email %s already exists", email)
	}

	reader, err := domain.NewReader(name, email, phone, password, int32(s.policy.MaxBooksPerBorrow))
	if err != nil {
		return nil, err
	}
	if err := s.readerRepo.Create(ctx, reader); err != nil {
		return nil, err
	}
	return reader, nil
}

func (s *membershipService) GetReader(ctx context.Context, id int32) (*domain.Reader, error) {
	return s.readerRepo.GetByID(ctx, id)
}

func (s *membershipService) ListReaders(ctx context.Context, page, pageSize int32) ([]domain.Reader, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.readerRepo.List(ctx, page, pageSize)
}

func (s *membershipService) UpdateReader(ctx context.Context, reader *domain.Reader) error {
	existing, err := s.readerRepo.GetByID(ctx, reader.ID)
	if err != nil {
		return err
	}
	// Circulation owns the counters and the status; profile updates keep them.
	reader.PasswordHash = existing.PasswordHash
	reader.Status = existing.Status
	reader.CurrentBorrowCount = existing.CurrentBorrowCount
	reader.TotalBorrowed = existing.TotalBorrowed
	reader.OverdueCount = existing.OverdueCount
	reader.UnpaidViolations = existing.UnpaidViolations
	return s.readerRepo.Update(ctx, reader)
}
