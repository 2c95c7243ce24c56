package postgres

import (
	"context"
	"database/sql"

	"libraflow-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ReaderRepository
	repository.StaffRepository
	repository.BookRepository
	repository.BorrowRepository
	repository.ViolationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ReaderRepository:       NewReaderRepository(db),
		StaffRepository:        NewStaffRepository(db),
		BookRepository:         NewBookRepository(db),
		BorrowRepository:       NewBorrowRepository(db),
		ViolationRepository:    NewViolationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// WithinTx starts a transaction, binds it to the context and runs fn.
// Repository calls made with that context execute on the transaction.
// Nested calls join the transaction already in the context.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(withTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type txKey struct{}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// querier is the subset of *sql.DB / *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the transaction bound to the context, or the plain connection.
func q(ctx context.Context, db *sql.DB) querier {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return db
}
