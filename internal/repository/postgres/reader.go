package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

type readerRepository struct {
	db *sql.DB
}

func NewReaderRepository(db *sql.DB) repository.ReaderRepository {
	return &readerRepository{db: db}
}

const readerColumns = `id, email, phone_number, password_hash, name, status, borrow_limit, current_borrow_count, total_borrowed, overdue_count, unpaid_violations, created_on, updated_on`

func scanReader(row interface{ Scan(...any) error }) (*domain.Reader, error) {
	r := &domain.Reader{}
	var createdOn, updatedOn time.Time
	err := row.Scan(&r.ID, &r.Email, &r.PhoneNumber, &r.PasswordHash, &r.Name, &r.Status, &r.BorrowLimit,
		&r.CurrentBorrowCount, &r.TotalBorrowed, &r.OverdueCount, &r.UnpaidViolations, &createdOn, &updatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.CreatedOn = createdOn.Format("2006-01-02")
	r.UpdatedOn = updatedOn.Format("2006-01-02")
	return r, nil
}

func (r *readerRepository) Create(ctx context.Context, reader *domain.Reader) error {
	query := `INSERT INTO readers (email, phone_number, password_hash, name, status, borrow_limit, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query, reader.Email, reader.PhoneNumber, reader.PasswordHash,
		reader.Name, reader.Status, reader.BorrowLimit, time.Now(), time.Now()).Scan(&reader.ID)
}

func (r *readerRepository) GetByID(ctx context.Context, id int32) (*domain.Reader, error) {
	query := `SELECT ` + readerColumns + ` FROM readers WHERE id = $1`
	return scanReader(q(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *readerRepository) GetByEmail(ctx context.Context, email string) (*domain.Reader, error) {
	query := `SELECT ` + readerColumns + ` FROM readers WHERE email = $1`
	return scanReader(q(ctx, r.db).QueryRowContext(ctx, query, email))
}

func (r *readerRepository) Update(ctx context.Context, reader *domain.Reader) error {
	query := `UPDATE readers SET email=$1, phone_number=$2, name=$3, status=$4, borrow_limit=$5, updated_on=$6 WHERE id=$7`
	_, err := q(ctx, r.db).ExecContext(ctx, query, reader.Email, reader.PhoneNumber, reader.Name,
		reader.Status, reader.BorrowLimit, time.Now(), reader.ID)
	return err
}

func (r *readerRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Reader, int32, error) {
	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM readers`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + readerColumns + ` FROM readers ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var readers []domain.Reader
	for rows.Next() {
		rd, err := scanReader(rows)
		if err != nil {
			return nil, 0, err
		}
		readers = append(readers, *rd)
	}
	return readers, count, rows.Err()
}

func (r *readerRepository) AdjustCounters(ctx context.Context, id int32, currentDelta, totalDelta, overdueDelta int32, unpaidDelta int64) error {
	query := `UPDATE readers
	          SET current_borrow_count = current_borrow_count + $1,
	              total_borrowed = total_borrowed + $2,
	              overdue_count = overdue_count + $3,
	              unpaid_violations = unpaid_violations + $4,
	              updated_on = $5
	          WHERE id = $6`
	res, err := q(ctx, r.db).ExecContext(ctx, query, currentDelta, totalDelta, overdueDelta, unpaidDelta, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *readerRepository) SetStatus(ctx context.Context, id int32, status domain.ReaderStatus) error {
	res, err := q(ctx, r.db).ExecContext(ctx, `UPDATE readers SET status=$1, updated_on=$2 WHERE id=$3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
