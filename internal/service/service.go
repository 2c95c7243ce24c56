package service

import (
	"context"

	"libraflow-backend/internal/domain"
)

// CreateBorrowInput carries one borrow request: 1-5 books picked up together
// under one session. StaffID is set for walk-in issues at the desk and nil
// for reader self-service requests.
type CreateBorrowInput struct {
	ReaderID     int32
	BookIDs      []int32
	StaffID      *int32
	DurationDays int
}

// ReturnLineUpdate is the condition a staff member records for one book at
// return time. Status defaults to RETURNED when empty.
type ReturnLineUpdate struct {
	BookID int32
	Status domain.BorrowStatus
	Fee    int64
	Reason string
}

// ReturnInput carries the return desk's assessment. A nonzero ViolationAmount
// overrides the automatic overdue fee.
type ReturnInput struct {
	Lines           []ReturnLineUpdate
	Notes           string
	ViolationAmount int64
	ViolationReason string
}

type CirculationService interface {
	Create(ctx context.Context, input CreateBorrowInput) (*domain.BorrowRecord, error)
	Approve(ctx context.Context, recordID, staffID int32) (*domain.BorrowRecord, error)
	Issue(ctx context.Context, recordID, staffID int32) (*domain.BorrowRecord, error)
	Reject(ctx context.Context, recordID, staffID int32, notes string) (*domain.BorrowRecord, error)
	Cancel(ctx context.Context, recordID int32, actor domain.Principal) (*domain.BorrowRecord, error)
	Renew(ctx context.Context, recordID int32, actor domain.Principal) (*domain.BorrowRecord, error)
	Return(ctx context.Context, recordID, staffID int32, input ReturnInput) (*domain.BorrowRecord, *domain.Violation, error)
	GetReaderHistory(ctx context.Context, readerID int32) ([]domain.BorrowRecord, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.BorrowRecord, int32, error)
}

type CatalogService interface {
	AddBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int32) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int32) error
	ListBooks(ctx context.Context, page, pageSize int32) ([]domain.Book, int32, error)
	SearchBooks(ctx context.Context, query string, categories []string, page, pageSize int32) ([]domain.Book, int32, error)
}

type MembershipService interface {
	RegisterReader(ctx context.Context, name, email, phone, password string) (*domain.Reader, error)
	GetReader(ctx context.Context, id int32) (*domain.Reader, error)
	ListReaders(ctx context.Context, page, pageSize int32) ([]domain.Reader, int32, error)
	UpdateReader(ctx context.Context, reader *domain.Reader) error
}

type AuthService interface {
	// Login authenticates against the account table selected by kind and
	// returns access and refresh tokens. The principal kind is fixed here,
	// at login time.
	Login(ctx context.Context, kind domain.PrincipalKind, email, password string) (string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type ViolationService interface {
	ListByReader(ctx context.Context, readerID int32, page, pageSize int32) ([]domain.Violation, int32, error)
	Pay(ctx context.Context, violationID int32) (*domain.Violation, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, readerID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, readerID, notificationID int32) error
}

type EmailService interface {
	SendBorrowRequestedNotification(ctx context.Context, readerEmail, readerName string, bookTitles []string) error
	SendBorrowApprovedNotification(ctx context.Context, readerEmail, readerName string) error
	SendBorrowIssuedNotification(ctx context.Context, readerEmail, readerName, dueDate string) error
	SendBorrowRejectedNotification(ctx context.Context, readerEmail, readerName, notes string) error
	SendDueReminderNotification(ctx context.Context, readerEmail, readerName, dueDate string) error
	SendOverdueNotification(ctx context.Context, readerEmail, readerName string, daysLate int64, fine int64) error
	SendReturnReceiptNotification(ctx context.Context, readerEmail, readerName string, fine int64) error
	SendSuspensionNotification(ctx context.Context, readerEmail, readerName, reason string) error
}
