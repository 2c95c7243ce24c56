package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"libraflow-backend/internal/domain"
)

func TestBorrowRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBorrowRepository(db)
	ctx := context.Background()

	now := time.Now()
	rec := &domain.BorrowRecord{
		ReaderID:    1,
		SessionID:   "session-1",
		BorrowDate:  now,
		DueDate:     now.AddDate(0, 0, 14),
		Status:      domain.BorrowStatusPending,
		MaxRenewals: 2,
		Lines: []domain.BorrowLine{
			{BookID: 10, Status: domain.BorrowStatusPending},
			{BookID: 11, Status: domain.BorrowStatusPending},
		},
	}

	mock.ExpectQuery("INSERT INTO borrow_records").
		WithArgs(int32(1), nil, "session-1", rec.BorrowDate, rec.DueDate, domain.BorrowStatusPending,
			int32(0), int32(2), int64(0), "", false, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("INSERT INTO borrow_lines").
		WithArgs(int32(7), int32(10), domain.BorrowStatusPending, int32(0), int64(0), "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO borrow_lines").
		WithArgs(int32(7), int32(11), domain.BorrowStatusPending, int32(0), int64(0), "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	err = repo.Create(ctx, rec)
	assert.NoError(t, err)
	assert.Equal(t, int32(7), rec.ID)
	assert.Equal(t, int32(7), rec.Lines[0].BorrowID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrowRepository_HasOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBorrowRepository(db)
	ctx := context.Background()
	asOf := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int32(1), domain.BorrowStatusBorrowed, asOf).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	overdue, err := repo.HasOverdue(ctx, 1, asOf)
	assert.NoError(t, err)
	assert.True(t, overdue)
}

func TestBorrowRepository_CountSessionsSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBorrowRepository(db)
	ctx := context.Background()
	since := time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(DISTINCT session_id\\) FROM borrow_records").
		WithArgs(int32(1), since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountSessionsSince(ctx, 1, since)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), count)
}

func TestBorrowRepository_List_DueBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBorrowRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM").
		WithArgs(string(domain.BorrowStatusBorrowed), now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	cols := []string{"id", "reader_id", "staff_id", "session_id", "borrow_date", "due_date", "return_date",
		"status", "renewal_count", "max_renewals", "fine_amount", "fine_reason", "fine_paid", "notes",
		"created_on", "updated_on"}
	rows := sqlmock.NewRows(cols).
		AddRow(5, 1, nil, "session-1", now.AddDate(0, 0, -20), now.AddDate(0, 0, -6), nil,
			"BORROWED", 0, 2, 0, "", false, "", now.AddDate(0, 0, -20), now.AddDate(0, 0, -20))
	mock.ExpectQuery("SELECT (.+) FROM borrow_records WHERE 1=1 AND status = \\$1 AND due_date < \\$2").
		WithArgs(string(domain.BorrowStatusBorrowed), now, int32(20), int32(0)).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT l.id, l.borrow_id").
		WithArgs(int32(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "borrow_id", "book_id", "status", "return_date",
			"renewal_count", "fine_amount", "fine_reason", "book_pk", "title", "author", "isbn", "book_status"}))

	records, total, err := repo.List(ctx, string(domain.BorrowStatusBorrowed), now, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Equal(t, domain.BorrowStatusBorrowed, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrowRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBorrowRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM borrow_records WHERE id = \\$1").
		WithArgs(int32(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
