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

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `id, title, author, isbn, publisher, published_year, categories, description, available, borrowed, total_borrowed, status, created_on, deleted_on`

func scanBook(row interface{ Scan(...any) error }) (*domain.Book, error) {
	b := &domain.Book{}
	var createdOn time.Time
	var deletedOn sql.NullTime
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Publisher, &b.PublishedYear,
		pq.Array(&b.Categories), &b.Description, &b.Available, &b.Borrowed, &b.TotalBorrowed,
		&b.Status, &createdOn, &deletedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.CreatedOn = createdOn.Format("2006-01-02")
	if deletedOn.Valid {
		d := deletedOn.Time.Format("2006-01-02")
		b.DeletedOn = &d
	}
	return b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (title, author, isbn, publisher, published_year, categories, description, available, borrowed, total_borrowed, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, $10) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query, b.Title, b.Author, b.ISBN, b.Publisher, b.PublishedYear,
		pq.Array(b.Categories), b.Description, b.Available, b.Status, time.Now()).Scan(&b.ID)
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 AND deleted_on IS NULL`
	return scanBook(q(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET title=$1, author=$2, isbn=$3, publisher=$4, published_year=$5, categories=$6, description=$7, available=$8, status=$9 WHERE id=$10 AND deleted_on IS NULL`
	_, err := q(ctx, r.db).ExecContext(ctx, query, b.Title, b.Author, b.ISBN, b.Publisher, b.PublishedYear,
		pq.Array(b.Categories), b.Description, b.Available, b.Status, b.ID)
	return err
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	res, err := q(ctx, r.db).ExecContext(ctx, `UPDATE books SET deleted_on=$1 WHERE id=$2 AND deleted_on IS NULL`, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Book, int32, error) {
	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM books WHERE deleted_on IS NULL`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + bookColumns + ` FROM books WHERE deleted_on IS NULL ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, *b)
	}
	return books, count, rows.Err()
}

func (r *bookRepository) Search(ctx context.Context, query string, categories []string, page, pageSize int32) ([]domain.Book, int32, error) {
	sqlStr := `SELECT ` + bookColumns + ` FROM books WHERE deleted_on IS NULL`
	args := []interface{}{}
	argIdx := 1

	if query != "" {
		sqlStr += fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d OR isbn = $%d)", argIdx, argIdx, argIdx+1)
		args = append(args, "%"+query+"%", query)
		argIdx += 2
	}
	if len(categories) > 0 {
		sqlStr += fmt.Sprintf(" AND categories && $%d", argIdx)
		args = append(args, pq.Array(categories))
		argIdx++
	}

	var count int32
	countSql := "SELECT count(*) FROM (" + sqlStr + ") as sub"
	if err := q(ctx, r.db).QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sqlStr += fmt.Sprintf(" ORDER BY title LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q(ctx, r.db).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, *b)
	}
	return books, count, rows.Err()
}

func (r *bookRepository) ReserveCopy(ctx context.Context, id int32) error {
	// Conditional decrement: the availability check and the stock mutation
	// are one statement, so two concurrent borrows of the last copy cannot
	// both succeed.
	query := `UPDATE books
	          SET available = available - 1,
	              borrowed = borrowed + 1,
	              total_borrowed = total_borrowed + 1
	          WHERE id = $1 AND deleted_on IS NULL AND status = $2 AND available >= 1`
	res, err := q(ctx, r.db).ExecContext(ctx, query, id, domain.BookStatusAvailable)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Businessf("book %d has no available copy", id)
	}
	return nil
}

func (r *bookRepository) RestockCopy(ctx context.Context, id int32) error {
	query := `UPDATE books SET available = available + 1, borrowed = borrowed - 1 WHERE id = $1`
	res, err := q(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookRepository) WriteOffCopy(ctx context.Context, id int32, status domain.BookStatus) error {
	query := `UPDATE books SET borrowed = borrowed - 1, status = $1 WHERE id = $2`
	res, err := q(ctx, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
