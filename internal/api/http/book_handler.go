package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/service"
)

type BookHandler struct {
	catalogSvc service.CatalogService
}

func NewBookHandler(catalogSvc service.CatalogService) *BookHandler {
	return &BookHandler{catalogSvc: catalogSvc}
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var book domain.Book
	if err := decodeBody(r, &book); err != nil {
		writeError(w, err)
		return
	}
	if err := h.catalogSvc.AddBook(r.Context(), &book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	book, err := h.catalogSvc.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var book domain.Book
	if err := decodeBody(r, &book); err != nil {
		writeError(w, err)
		return
	}
	book.ID = id
	if err := h.catalogSvc.UpdateBook(r.Context(), &book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.catalogSvc.DeleteBook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// List serves both plain listing and search; a "q" or "categories" query
// parameter switches to search.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	query := r.URL.Query().Get("q")
	var categories []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		categories = strings.Split(raw, ",")
	}

	var (
		books []domain.Book
		total int32
		err   error
	)
	if query != "" || len(categories) > 0 {
		books, total, err = h.catalogSvc.SearchBooks(r.Context(), query, categories, page, pageSize)
	} else {
		books, total, err = h.catalogSvc.ListBooks(r.Context(), page, pageSize)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: books, Total: total, Page: page})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, &domain.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return int32(id), nil
}

func pageParams(r *http.Request) (int32, int32) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return int32(page), int32(pageSize)
}
