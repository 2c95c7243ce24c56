package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"

	"github.com/lib/pq"
)

type borrowRepository struct {
	db *sql.DB
}

func NewBorrowRepository(db *sql.DB) repository.BorrowRepository {
	return &borrowRepository{db: db}
}

const borrowColumns = `id, reader_id, staff_id, session_id, borrow_date, due_date, return_date, status, renewal_count, max_renewals, fine_amount, fine_reason, fine_paid, notes, created_on, updated_on`

func scanBorrow(row interface{ Scan(...any) error }) (*domain.BorrowRecord, error) {
	rec := &domain.BorrowRecord{}
	err := row.Scan(&rec.ID, &rec.ReaderID, &rec.StaffID, &rec.SessionID, &rec.BorrowDate, &rec.DueDate,
		&rec.ReturnDate, &rec.Status, &rec.RenewalCount, &rec.MaxRenewals, &rec.FineAmount, &rec.FineReason,
		&rec.FinePaid, &rec.Notes, &rec.CreatedOn, &rec.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *borrowRepository) Create(ctx context.Context, rec *domain.BorrowRecord) error {
	query := `INSERT INTO borrow_records (reader_id, staff_id, session_id, borrow_date, due_date, status, renewal_count, max_renewals, fine_amount, fine_reason, fine_paid, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	err := q(ctx, r.db).QueryRowContext(ctx, query, rec.ReaderID, rec.StaffID, rec.SessionID, rec.BorrowDate,
		rec.DueDate, rec.Status, rec.RenewalCount, rec.MaxRenewals, rec.FineAmount, rec.FineReason,
		rec.FinePaid, rec.Notes, now, now).Scan(&rec.ID)
	if err != nil {
		return err
	}

	lineQuery := `INSERT INTO borrow_lines (borrow_id, book_id, status, renewal_count, fine_amount, fine_reason)
	              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	for i := range rec.Lines {
		ln := &rec.Lines[i]
		ln.BorrowID = rec.ID
		if err := q(ctx, r.db).QueryRowContext(ctx, lineQuery, rec.ID, ln.BookID, ln.Status,
			ln.RenewalCount, ln.FineAmount, ln.FineReason).Scan(&ln.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *borrowRepository) GetByID(ctx context.Context, id int32) (*domain.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE id = $1`
	rec, err := scanBorrow(q(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *borrowRepository) loadLines(ctx context.Context, rec *domain.BorrowRecord) error {
	query := `SELECT l.id, l.borrow_id, l.book_id, l.status, l.return_date, l.renewal_count, l.fine_amount, l.fine_reason,
	                 b.id, b.title, b.author, b.isbn, b.status
	          FROM borrow_lines l JOIN books b ON b.id = l.book_id
	          WHERE l.borrow_id = $1 ORDER BY l.id`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, rec.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	rec.Lines = nil
	for rows.Next() {
		var ln domain.BorrowLine
		book := &domain.Book{}
		if err := rows.Scan(&ln.ID, &ln.BorrowID, &ln.BookID, &ln.Status, &ln.ReturnDate, &ln.RenewalCount,
			&ln.FineAmount, &ln.FineReason, &book.ID, &book.Title, &book.Author, &book.ISBN, &book.Status); err != nil {
			return err
		}
		ln.Book = book
		rec.Lines = append(rec.Lines, ln)
	}
	return rows.Err()
}

func (r *borrowRepository) Update(ctx context.Context, rec *domain.BorrowRecord) error {
	query := `UPDATE borrow_records
	          SET staff_id=$1, borrow_date=$2, due_date=$3, return_date=$4, status=$5, renewal_count=$6,
	              fine_amount=$7, fine_reason=$8, fine_paid=$9, notes=$10, updated_on=$11
	          WHERE id=$12`
	res, err := q(ctx, r.db).ExecContext(ctx, query, rec.StaffID, rec.BorrowDate, rec.DueDate, rec.ReturnDate,
		rec.Status, rec.RenewalCount, rec.FineAmount, rec.FineReason, rec.FinePaid, rec.Notes, time.Now(), rec.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}

	lineQuery := `UPDATE borrow_lines SET status=$1, return_date=$2, renewal_count=$3, fine_amount=$4, fine_reason=$5 WHERE id=$6`
	for i := range rec.Lines {
		ln := &rec.Lines[i]
		if _, err := q(ctx, r.db).ExecContext(ctx, lineQuery, ln.Status, ln.ReturnDate, ln.RenewalCount,
			ln.FineAmount, ln.FineReason, ln.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *borrowRepository) ListByReader(ctx context.Context, readerID int32) ([]domain.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE reader_id = $1 ORDER BY created_on DESC`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, readerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.BorrowRecord
	for rows.Next() {
		rec, err := scanBorrow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range records {
		if err := r.loadLines(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *borrowRepository) List(ctx context.Context, status string, dueBefore time.Time, page, pageSize int32) ([]domain.BorrowRecord, int32, error) {
	sqlStr := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE 1=1`
	args := []interface{}{}
	argIdx := 1
	if status != "" {
		sqlStr += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}
	if !dueBefore.IsZero() {
		sqlStr += fmt.Sprintf(" AND due_date < $%d", argIdx)
		args = append(args, dueBefore)
		argIdx++
	}

	var count int32
	countSql := "SELECT count(*) FROM (" + sqlStr + ") as sub"
	if err := q(ctx, r.db).QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sqlStr += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q(ctx, r.db).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []domain.BorrowRecord
	for rows.Next() {
		rec, err := scanBorrow(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range records {
		if err := r.loadLines(ctx, &records[i]); err != nil {
			return nil, 0, err
		}
	}
	return records, count, nil
}

func (r *borrowRepository) HasOverdue(ctx context.Context, readerID int32, asOf time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM borrow_records WHERE reader_id = $1 AND status = $2 AND due_date < $3)`
	err := q(ctx, r.db).QueryRowContext(ctx, query, readerID, domain.BorrowStatusBorrowed, asOf).Scan(&exists)
	return exists, err
}

func (r *borrowRepository) CountSessionsSince(ctx context.Context, readerID int32, since time.Time) (int32, error) {
	var count int32
	query := `SELECT count(DISTINCT session_id) FROM borrow_records WHERE reader_id = $1 AND created_on >= $2`
	err := q(ctx, r.db).QueryRowContext(ctx, query, readerID, since).Scan(&count)
	return count, err
}

func (r *borrowRepository) HasPendingForBooks(ctx context.Context, bookIDs []int32, excludeID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM borrow_lines l
	            JOIN borrow_records r ON r.id = l.borrow_id
	            WHERE l.book_id = ANY($1) AND r.status = $2 AND r.id <> $3)`
	err := q(ctx, r.db).QueryRowContext(ctx, query, pq.Array(bookIDs), domain.BorrowStatusPending, excludeID).Scan(&exists)
	return exists, err
}

func (r *borrowRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE status = $1 AND due_date >= $2 AND due_date < $3`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, domain.BorrowStatusBorrowed, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.BorrowRecord
	for rows.Next() {
		rec, err := scanBorrow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
