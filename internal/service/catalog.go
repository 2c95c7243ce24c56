package service

import (
	"context"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

type catalogService struct {
	bookRepo repository.BookRepository
}

func NewCatalogService(bookRepo repository.BookRepository) CatalogService {
	return &catalogService{bookRepo: bookRepo}
}

func (s *catalogService) AddBook(ctx context.Context, book *domain.Book) error {
	if book.Title == "" {
		return &domain.ValidationError{Field: "title", Reason: "title is required"}
	}
	if book.Author == "" {
		return &domain.ValidationError{Field: "author", Reason: "author is required"}
	}
	if book.Available < 0 {
		return &domain.ValidationError{Field: "available", Reason: "copy count cannot be negative"}
	}
	if book.Status == "" {
		book.Status = domain.BookStatusAvailable
	}
	return s.bookRepo.Create(ctx, book)
}

func (s *catalogService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *catalogService) UpdateBook(ctx context.Context, book *domain.Book) error {
	existing, err := s.bookRepo.GetByID(ctx, book.ID)
	if err != nil {
		return err
	}
	// Inventory counters belong to circulation; an update cannot touch them.
	book.Available = existing.Available
	book.Borrowed = existing.Borrowed
	book.TotalBorrowed = existing.TotalBorrowed
	return s.bookRepo.Update(ctx, book)
}

func (s *catalogService) DeleteBook(ctx context.Context, id int32) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book.Borrowed > 0 {
		return domain.Businessf("book %q has %d copies on loan and cannot be removed", book.Title, book.Borrowed)
	}
	return s.bookRepo.Delete(ctx, id)
}

func (s *catalogService) ListBooks(ctx context.Context, page, pageSize int32) ([]domain.Book, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.bookRepo.List(ctx, page, pageSize)
}

func (s *catalogService) SearchBooks(ctx context.Context, query string, categories []string, page, pageSize int32) ([]domain.Book, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.bookRepo.Search(ctx, query, categories, page, pageSize)
}

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
