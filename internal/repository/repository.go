package repository

import (
	"context"
	"time"

	"libraflow-backend/internal/domain"
)

// TxManager runs a function with a database transaction bound to the context.
// Repository calls made with that context join the transaction; the whole
// multi-table mutation commits or rolls back as one unit.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ReaderRepository interface {
	Create(ctx context.Context, reader *domain.Reader) error
	GetByID(ctx context.Context, id int32) (*domain.Reader, error)
	GetByEmail(ctx context.Context, email string) (*domain.Reader, error)
	Update(ctx context.Context, reader *domain.Reader) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Reader, int32, error)

	// AdjustCounters applies deltas to the reader's circulation counters.
	AdjustCounters(ctx context.Context, id int32, currentDelta, totalDelta, overdueDelta int32, unpaidDelta int64) error
	SetStatus(ctx context.Context, id int32, status domain.ReaderStatus) error
}

type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	GetByID(ctx context.Context, id int32) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Book, int32, error)
	Search(ctx context.Context, query string, categories []string, page, pageSize int32) ([]domain.Book, int32, error)

	// ReserveCopy atomically takes one unit out of stock
	// (available-1, borrowed+1, total_borrowed+1). Fails with a business
	// error when no copy is available; the check and the decrement are one
	// conditional statement, so concurrent borrows cannot drive the count
	// negative.
	ReserveCopy(ctx context.Context, id int32) error

	// RestockCopy puts one unit back (available+1, borrowed-1).
	RestockCopy(ctx context.Context, id int32) error

	// WriteOffCopy removes a unit from circulation without restocking
	// (borrowed-1) and flips the book's own status, for lost or heavily
	// damaged copies.
	WriteOffCopy(ctx context.Context, id int32, status domain.BookStatus) error
}

type BorrowRepository interface {
	Create(ctx context.Context, record *domain.BorrowRecord) error
	GetByID(ctx context.Context, id int32) (*domain.BorrowRecord, error)
	Update(ctx context.Context, record *domain.BorrowRecord) error
	ListByReader(ctx context.Context, readerID int32) ([]domain.BorrowRecord, error)
	// List pages over records, optionally filtered by status. A non-zero
	// dueBefore additionally restricts to records due before that instant,
	// which is how the derived OVERDUE filter reaches the database.
	List(ctx context.Context, status string, dueBefore time.Time, page, pageSize int32) ([]domain.BorrowRecord, int32, error)

	// HasOverdue reports whether the reader holds any BORROWED record whose
	// due date precedes asOf.
	HasOverdue(ctx context.Context, readerID int32, asOf time.Time) (bool, error)

	// CountSessionsSince counts distinct borrow sessions the reader started
	// at or after the given instant.
	CountSessionsSince(ctx context.Context, readerID int32, since time.Time) (int32, error)

	// HasPendingForBooks reports whether any other record in PENDING state
	// references one of the given books.
	HasPendingForBooks(ctx context.Context, bookIDs []int32, excludeID int32) (bool, error)

	// ListDueBetween returns BORROWED records whose due date falls in
	// [from, to), for reminder jobs.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.BorrowRecord, error)
}

type ViolationRepository interface {
	Create(ctx context.Context, v *domain.Violation) error
	GetByID(ctx context.Context, id int32) (*domain.Violation, error)
	ListByReader(ctx context.Context, readerID int32, page, pageSize int32) ([]domain.Violation, int32, error)
	MarkPaid(ctx context.Context, id int32) error
	UnpaidTotal(ctx context.Context, readerID int32) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, readerID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, readerID int32) error
}
