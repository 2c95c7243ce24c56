package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

type staffRepository struct {
	db *sql.DB
}

func NewStaffRepository(db *sql.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	query := `INSERT INTO staff (email, password_hash, name, role, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query, staff.Email, staff.PasswordHash, staff.Name,
		staff.Role, time.Now(), time.Now()).Scan(&staff.ID)
}

func scanStaff(row interface{ Scan(...any) error }) (*domain.Staff, error) {
	st := &domain.Staff{}
	var createdOn, updatedOn time.Time
	err := row.Scan(&st.ID, &st.Email, &st.PasswordHash, &st.Name, &st.Role, &createdOn, &updatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	st.CreatedOn = createdOn.Format("2006-01-02")
	st.UpdatedOn = updatedOn.Format("2006-01-02")
	return st, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id int32) (*domain.Staff, error) {
	query := `SELECT id, email, password_hash, name, role, created_on, updated_on FROM staff WHERE id = $1`
	return scanStaff(q(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `SELECT id, email, password_hash, name, role, created_on, updated_on FROM staff WHERE email = $1`
	return scanStaff(q(ctx, r.db).QueryRowContext(ctx, query, email))
}
