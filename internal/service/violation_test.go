package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libraflow-backend/internal/domain"
)

func TestViolationService_Pay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	newFixture := func() (*MockViolationRepo, *MockReaderRepo, *MockBorrowRepo, *violationService) {
		violationRepo := new(MockViolationRepo)
		readerRepo := new(MockReaderRepo)
		borrowRepo := new(MockBorrowRepo)
		svc := NewViolationService(violationRepo, readerRepo, borrowRepo, &mockTxManager{}, testPolicy()).(*violationService)
		svc.now = func() time.Time { return now }
		return violationRepo, readerRepo, borrowRepo, svc
	}

	t.Run("SettlesAndDecrementsDebt", func(t *testing.T) {
		violationRepo, readerRepo, _, svc := newFixture()
		reader := activeReader(1)
		reader.UnpaidViolations = 15000

		violationRepo.On("GetByID", ctx, int32(3)).Return(&domain.Violation{ID: 3, ReaderID: 1, Amount: 15000}, nil)
		readerRepo.On("GetByID", ctx, int32(1)).Return(reader, nil)
		violationRepo.On("MarkPaid", ctx, int32(3)).Return(nil)
		readerRepo.On("AdjustCounters", ctx, int32(1), int32(0), int32(0), int32(0), int64(-15000)).Return(nil)

		v, err := svc.Pay(ctx, 3)
		assert.NoError(t, err)
		assert.True(t, v.Paid)
		assert.NotNil(t, v.PaidOn)
	})

	t.Run("AlreadyPaid", func(t *testing.T) {
		violationRepo, _, _, svc := newFixture()
		violationRepo.On("GetByID", ctx, int32(3)).Return(&domain.Violation{ID: 3, ReaderID: 1, Amount: 15000, Paid: true}, nil)

		_, err := svc.Pay(ctx, 3)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already paid")
	})

	t.Run("PaymentLiftsSuspension", func(t *testing.T) {
		violationRepo, readerRepo, borrowRepo, svc := newFixture()
		reader := activeReader(1)
		reader.Status = domain.ReaderStatusSuspended
		reader.UnpaidViolations = 25000

		violationRepo.On("GetByID", ctx, int32(3)).Return(&domain.Violation{ID: 3, ReaderID: 1, Amount: 10000}, nil)
		readerRepo.On("GetByID", ctx, int32(1)).Return(reader, nil)
		violationRepo.On("MarkPaid", ctx, int32(3)).Return(nil)
		readerRepo.On("AdjustCounters", ctx, int32(1), int32(0), int32(0), int32(0), int64(-10000)).Return(nil)
		violationRepo.On("UnpaidTotal", ctx, int32(1)).Return(int64(15000), nil)
		borrowRepo.On("HasOverdue", ctx, int32(1), now).Return(false, nil)
		readerRepo.On("SetStatus", ctx, int32(1), domain.ReaderStatusActive).Return(nil)

		_, err := svc.Pay(ctx, 3)
		assert.NoError(t, err)
		readerRepo.AssertCalled(t, "SetStatus", ctx, int32(1), domain.ReaderStatusActive)
	})

	t.Run("SuspensionStaysOverThreshold", func(t *testing.T) {
		violationRepo, readerRepo, _, svc := newFixture()
		reader := activeReader(1)
		reader.Status = domain.ReaderStatusSuspended
		reader.UnpaidViolations = 40000

		violationRepo.On("GetByID", ctx, int32(3)).Return(&domain.Violation{ID: 3, ReaderID: 1, Amount: 10000}, nil)
		readerRepo.On("GetByID", ctx, int32(1)).Return(reader, nil)
		violationRepo.On("MarkPaid", ctx, int32(3)).Return(nil)
		readerRepo.On("AdjustCounters", ctx, int32(1), int32(0), int32(0), int32(0), int64(-10000)).Return(nil)
		violationRepo.On("UnpaidTotal", ctx, int32(1)).Return(int64(30000), nil)

		_, err := svc.Pay(ctx, 3)
		assert.NoError(t, err)
		readerRepo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SuspensionStaysWhileOverdue", func(t *testing.T) {
		violationRepo, readerRepo, borrowRepo, svc := newFixture()
		reader := activeReader(1)
		reader.Status = domain.ReaderStatusSuspended
		reader.UnpaidViolations = 10000

		violationRepo.On("GetByID", ctx, int32(3)).Return(&domain.Violation{ID: 3, ReaderID: 1, Amount: 10000}, nil)
		readerRepo.On("GetByID", ctx, int32(1)).Return(reader, nil)
		violationRepo.On("MarkPaid", ctx, int32(3)).Return(nil)
		readerRepo.On("AdjustCounters", ctx, int32(1), int32(0), int32(0), int32(0), int64(-10000)).Return(nil)
		violationRepo.On("UnpaidTotal", ctx, int32(1)).Return(int64(0), nil)
		borrowRepo.On("HasOverdue", ctx, int32(1), now).Return(true, nil)

		_, err := svc.Pay(ctx, 3)
		assert.NoError(t, err)
		readerRepo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
