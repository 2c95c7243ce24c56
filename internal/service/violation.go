package service

import (
	"context"
	"time"

	"libraflow-backend/internal/config"
	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

type violationService struct {
	violationRepo repository.ViolationRepository
	readerRepo    repository.ReaderRepository
	borrowRepo    repository.BorrowRepository
	txm           repository.TxManager
	policy        config.CirculationConfig
	now           func() time.Time
}

func NewViolationService(
	violationRepo repository.ViolationRepository,
	readerRepo repository.ReaderRepository,
	borrowRepo repository.BorrowRepository,
	txm repository.TxManager,
	policy config.CirculationConfig,
) ViolationService {
	return &violationService{
		violationRepo: violationRepo,
		readerRepo:    readerRepo,
		borrowRepo:    borrowRepo,
		txm:           txm,
		policy:        policy,
		now:           time.Now,
	}
}

func (s *violationService) ListByReader(ctx context.Context, readerID int32, page, pageSize int32) ([]domain.Violation, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.violationRepo.ListByReader(ctx, readerID, page, pageSize)
}

// Pay settles one violation and, when the reader's debt drops back under the
// threshold and nothing is overdue, lifts a suspension.
func (s *violationService) Pay(ctx context.Context, violationID int32) (*domain.Violation, error) {
	v, err := s.violationRepo.GetByID(ctx, violationID)
	if err != nil {
		return nil, err
	}
	if v.Paid {
		return nil, domain.Businessf("violation %d is already paid", v.ID)
	}

	reader, err := s.readerRepo.GetByID(ctx, v.ReaderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.violationRepo.MarkPaid(ctx, v.ID); err != nil {
			return err
		}
		if err := s.readerRepo.AdjustCounters(ctx, reader.ID, 0, 0, 0, -v.Amount); err != nil {
			return err
		}

		if reader.Status != domain.ReaderStatusSuspended {
			return nil
		}
		// Sum the remaining unpaid violations inside the transaction rather
		// than trusting the denormalized reader counter.
		unpaid, err := s.violationRepo.UnpaidTotal(ctx, reader.ID)
		if err != nil {
			return err
		}
		if unpaid > s.policy.DebtThreshold {
			return nil
		}
		stillOverdue, err := s.borrowRepo.HasOverdue(ctx, reader.ID, now)
		if err != nil {
			return err
		}
		if stillOverdue {
			return nil
		}
		return s.readerRepo.SetStatus(ctx, reader.ID, domain.ReaderStatusActive)
	})
	if err != nil {
		return nil, err
	}

	v.Paid = true
	v.PaidOn = &now
	return v, nil
}
