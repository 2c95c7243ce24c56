package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

type violationRepository struct {
	db *sql.DB
}

func NewViolationRepository(db *sql.DB) repository.ViolationRepository {
	return &violationRepository{db: db}
}

func (r *violationRepository) Create(ctx context.Context, v *domain.Violation) error {
	query := `INSERT INTO violations (reader_id, borrow_id, amount, reason, paid, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query, v.ReaderID, v.BorrowID, v.Amount, v.Reason,
		v.Paid, time.Now()).Scan(&v.ID)
}

func (r *violationRepository) GetByID(ctx context.Context, id int32) (*domain.Violation, error) {
	v := &domain.Violation{}
	query := `SELECT id, reader_id, borrow_id, amount, reason, paid, created_on, paid_on FROM violations WHERE id = $1`
	err := q(ctx, r.db).QueryRowContext(ctx, query, id).
		Scan(&v.ID, &v.ReaderID, &v.BorrowID, &v.Amount, &v.Reason, &v.Paid, &v.CreatedOn, &v.PaidOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *violationRepository) ListByReader(ctx context.Context, readerID int32, page, pageSize int32) ([]domain.Violation, int32, error) {
	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM violations WHERE reader_id = $1`, readerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, reader_id, borrow_id, amount, reason, paid, created_on, paid_on
	          FROM violations WHERE reader_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, readerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var violations []domain.Violation
	for rows.Next() {
		var v domain.Violation
		if err := rows.Scan(&v.ID, &v.ReaderID, &v.BorrowID, &v.Amount, &v.Reason, &v.Paid, &v.CreatedOn, &v.PaidOn); err != nil {
			return nil, 0, err
		}
		violations = append(violations, v)
	}
	return violations, count, rows.Err()
}

func (r *violationRepository) MarkPaid(ctx context.Context, id int32) error {
	res, err := q(ctx, r.db).ExecContext(ctx, `UPDATE violations SET paid = true, paid_on = $1 WHERE id = $2 AND paid = false`, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Businessf("violation %d not found or already paid", id)
	}
	return nil
}

func (r *violationRepository) UnpaidTotal(ctx context.Context, readerID int32) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM violations WHERE reader_id = $1 AND paid = false`
	err := q(ctx, r.db).QueryRowContext(ctx, query, readerID).Scan(&total)
	return total, err
}
