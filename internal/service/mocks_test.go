package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"libraflow-backend/internal/domain"
)

// mockTxManager runs the callback inline; the repositories are mocked so
// there is nothing to commit.
type mockTxManager struct{}

func (m *mockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockReaderRepo
type MockReaderRepo struct {
	mock.Mock
}

func (m *MockReaderRepo) Create(ctx context.Context, reader *domain.Reader) error {
	args := m.Called(ctx, reader)
	return args.Error(0)
}
func (m *MockReaderRepo) GetByID(ctx context.Context, id int32) (*domain.Reader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reader), args.Error(1)
}
func (m *MockReaderRepo) GetByEmail(ctx context.Context, email string) (*domain.Reader, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reader), args.Error(1)
}
func (m *MockReaderRepo) Update(ctx context.Context, reader *domain.Reader) error {
	args := m.Called(ctx, reader)
	return args.Error(0)
}
func (m *MockReaderRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Reader, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Reader), args.Get(1).(int32), args.Error(2)
}
func (m *MockReaderRepo) AdjustCounters(ctx context.Context, id int32, currentDelta, totalDelta, overdueDelta int32, unpaidDelta int64) error {
	args := m.Called(ctx, id, currentDelta, totalDelta, overdueDelta, unpaidDelta)
	return args.Error(0)
}
func (m *MockReaderRepo) SetStatus(ctx context.Context, id int32, status domain.ReaderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockStaffRepo
type MockStaffRepo struct {
	mock.Mock
}

func (m *MockStaffRepo) Create(ctx context.Context, staff *domain.Staff) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}
func (m *MockStaffRepo) GetByID(ctx context.Context, id int32) (*domain.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}
func (m *MockStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Book, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookRepo) Search(ctx context.Context, query string, categories []string, page, pageSize int32) ([]domain.Book, int32, error) {
	args := m.Called(ctx, query, categories, page, pageSize)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookRepo) ReserveCopy(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) RestockCopy(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) WriteOffCopy(ctx context.Context, id int32, status domain.BookStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockBorrowRepo
type MockBorrowRepo struct {
	mock.Mock
}

func (m *MockBorrowRepo) Create(ctx context.Context, record *domain.BorrowRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockBorrowRepo) GetByID(ctx context.Context, id int32) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRepo) Update(ctx context.Context, record *domain.BorrowRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockBorrowRepo) ListByReader(ctx context.Context, readerID int32) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, readerID)
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRepo) List(ctx context.Context, status string, dueBefore time.Time, page, pageSize int32) ([]domain.BorrowRecord, int32, error) {
	args := m.Called(ctx, status, dueBefore, page, pageSize)
	return args.Get(0).([]domain.BorrowRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockBorrowRepo) HasOverdue(ctx context.Context, readerID int32, asOf time.Time) (bool, error) {
	args := m.Called(ctx, readerID, asOf)
	return args.Bool(0), args.Error(1)
}
func (m *MockBorrowRepo) CountSessionsSince(ctx context.Context, readerID int32, since time.Time) (int32, error) {
	args := m.Called(ctx, readerID, since)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBorrowRepo) HasPendingForBooks(ctx context.Context, bookIDs []int32, excludeID int32) (bool, error) {
	args := m.Called(ctx, bookIDs, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBorrowRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}

// MockViolationRepo
type MockViolationRepo struct {
	mock.Mock
}

func (m *MockViolationRepo) Create(ctx context.Context, v *domain.Violation) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockViolationRepo) GetByID(ctx context.Context, id int32) (*domain.Violation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Violation), args.Error(1)
}
func (m *MockViolationRepo) ListByReader(ctx context.Context, readerID int32, page, pageSize int32) ([]domain.Violation, int32, error) {
	args := m.Called(ctx, readerID, page, pageSize)
	return args.Get(0).([]domain.Violation), args.Get(1).(int32), args.Error(2)
}
func (m *MockViolationRepo) MarkPaid(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockViolationRepo) UnpaidTotal(ctx context.Context, readerID int32) (int64, error) {
	args := m.Called(ctx, readerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, readerID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, readerID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, readerID int32) error {
	args := m.Called(ctx, id, readerID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBorrowRequestedNotification(ctx context.Context, readerEmail, readerName string, bookTitles []string) error {
	args := m.Called(ctx, readerEmail, readerName, bookTitles)
	return args.Error(0)
}
func (m *MockEmailService) SendBorrowApprovedNotification(ctx context.Context, readerEmail, readerName string) error {
	args := m.Called(ctx, readerEmail, readerName)
	return args.Error(0)
}
func (m *MockEmailService) SendBorrowIssuedNotification(ctx context.Context, readerEmail, readerName, dueDate string) error {
	args := m.Called(ctx, readerEmail, readerName, dueDate)
	return args.Error(0)
}
func (m *MockEmailService) SendBorrowRejectedNotification(ctx context.Context, readerEmail, readerName, notes string) error {
	args := m.Called(ctx, readerEmail, readerName, notes)
	return args.Error(0)
}
func (m *MockEmailService) SendDueReminderNotification(ctx context.Context, readerEmail, readerName, dueDate string) error {
	args := m.Called(ctx, readerEmail, readerName, dueDate)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotification(ctx context.Context, readerEmail, readerName string, daysLate int64, fine int64) error {
	args := m.Called(ctx, readerEmail, readerName, daysLate, fine)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReceiptNotification(ctx context.Context, readerEmail, readerName string, fine int64) error {
	args := m.Called(ctx, readerEmail, readerName, fine)
	return args.Error(0)
}
func (m *MockEmailService) SendSuspensionNotification(ctx context.Context, readerEmail, readerName, reason string) error {
	args := m.Called(ctx, readerEmail, readerName, reason)
	return args.Error(0)
}
