package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"libraflow-backend/internal/domain"
)

func TestBookRepository_ReserveCopy(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE books").
			WithArgs(int32(1), domain.BookStatusAvailable).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReserveCopy(ctx, 1)
		assert.NoError(t, err)
	})

	t.Run("NoAvailableCopy", func(t *testing.T) {
		mock.ExpectExec("UPDATE books").
			WithArgs(int32(1), domain.BookStatusAvailable).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReserveCopy(ctx, 1)
		assert.Error(t, err)
		var bErr *domain.BusinessError
		assert.ErrorAs(t, err, &bErr)
	})
}

func TestBookRepository_RestockCopy(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE books SET available = available \\+ 1").
			WithArgs(int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RestockCopy(ctx, 1)
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE books SET available = available \\+ 1").
			WithArgs(int32(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RestockCopy(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookRepository_WriteOffCopy(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE books SET borrowed = borrowed - 1").
		WithArgs(domain.BookStatusLost, int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.WriteOffCopy(ctx, 1, domain.BookStatusLost)
	assert.NoError(t, err)
}
