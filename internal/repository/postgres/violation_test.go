package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"libraflow-backend/internal/domain"
)

func TestViolationRepository_MarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewViolationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE violations SET paid = true").
			WithArgs(sqlmock.AnyArg(), int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkPaid(ctx, 3)
		assert.NoError(t, err)
	})

	t.Run("AlreadyPaid", func(t *testing.T) {
		mock.ExpectExec("UPDATE violations SET paid = true").
			WithArgs(sqlmock.AnyArg(), int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkPaid(ctx, 3)
		assert.Error(t, err)
		var bErr *domain.BusinessError
		assert.ErrorAs(t, err, &bErr)
	})
}

func TestViolationRepository_UnpaidTotal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewViolationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM violations").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(25000))

	total, err := repo.UnpaidTotal(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(25000), total)
}
