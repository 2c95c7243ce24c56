package http

import (
	"context"
	"net/http"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/service"
)

type BorrowHandler struct {
	circulationSvc service.CirculationService
}

func NewBorrowHandler(circulationSvc service.CirculationService) *BorrowHandler {
	return &BorrowHandler{circulationSvc: circulationSvc}
}

type createBorrowRequest struct {
	ReaderID     int32   `json:"reader_id"`
	BookIDs      []int32 `json:"book_ids"`
	DurationDays int     `json:"duration_days"`
}

// Create starts a borrow session. A reader always borrows for themselves;
// staff name the reader explicitly and the record is issued on the spot.
func (h *BorrowHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req createBorrowRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	input := service.CreateBorrowInput{
		BookIDs:      req.BookIDs,
		DurationDays: req.DurationDays,
	}
	if p.IsStaff() {
		if req.ReaderID < 1 {
			writeError(w, &domain.ValidationError{Field: "reader_id", Reason: "reader_id is required for staff-created borrows"})
			return
		}
		input.ReaderID = req.ReaderID
		staffID := p.ID
		input.StaffID = &staffID
	} else {
		input.ReaderID = p.ID
	}

	record, err := h.circulationSvc.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *BorrowHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	status := r.URL.Query().Get("status")

	records, total, err := h.circulationSvc.List(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: records, Total: total, Page: page})
}

func (h *BorrowHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.staffTransition(w, r, h.circulationSvc.Approve)
}

func (h *BorrowHandler) Issue(w http.ResponseWriter, r *http.Request) {
	h.staffTransition(w, r, h.circulationSvc.Issue)
}

func (h *BorrowHandler) staffTransition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, recordID, staffID int32) (*domain.BorrowRecord, error)) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := fn(r.Context(), id, p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type rejectRequest struct {
	Notes string `json:"notes"`
}

func (h *BorrowHandler) Reject(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req rejectRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	record, err := h.circulationSvc.Reject(r.Context(), id, p.ID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *BorrowHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.circulationSvc.Cancel(r.Context(), id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *BorrowHandler) Renew(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.circulationSvc.Renew(r.Context(), id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type returnLineRequest struct {
	BookID int32  `json:"book_id"`
	Status string `json:"status"`
	Fee    int64  `json:"fee"`
	Reason string `json:"reason"`
}

type returnRequest struct {
	Lines           []returnLineRequest `json:"lines"`
	Notes           string              `json:"notes"`
	ViolationAmount int64               `json:"violation_amount"`
	ViolationReason string              `json:"violation_reason"`
}

type returnResponse struct {
	Record    *domain.BorrowRecord `json:"record"`
	Violation *domain.Violation    `json:"violation,omitempty"`
}

func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req returnRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	input := service.ReturnInput{
		Notes:           req.Notes,
		ViolationAmount: req.ViolationAmount,
		ViolationReason: req.ViolationReason,
	}
	for _, ln := range req.Lines {
		input.Lines = append(input.Lines, service.ReturnLineUpdate{
			BookID: ln.BookID,
			Status: domain.BorrowStatus(ln.Status),
			Fee:    ln.Fee,
			Reason: ln.Reason,
		})
	}

	record, violation, err := h.circulationSvc.Return(r.Context(), id, p.ID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{Record: record, Violation: violation})
}

// History returns a reader's full borrow history, newest first. Readers can
// only see their own; staff can see anyone's.
func (h *BorrowHandler) History(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	readerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !p.IsStaff() && p.ID != readerID {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}

	records, err := h.circulationSvc.GetReaderHistory(r.Context(), readerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
