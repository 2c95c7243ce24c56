package http

import (
	"net/http"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/service"
)

type ReaderHandler struct {
	membershipSvc service.MembershipService
}

func NewReaderHandler(membershipSvc service.MembershipService) *ReaderHandler {
	return &ReaderHandler{membershipSvc: membershipSvc}
}

func (h *ReaderHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	if !p.IsStaff() && p.ID != id {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}

	reader, err := h.membershipSvc.GetReader(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reader)
}

func (h *ReaderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	readers, total, err := h.membershipSvc.ListReaders(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: readers, Total: total, Page: page})
}

type updateReaderRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (h *ReaderHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	if !p.IsStaff() && p.ID != id {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}

	var req updateReaderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reader := &domain.Reader{
		ID:          id,
		Name:        req.Name,
		PhoneNumber: req.Phone,
		Email:       req.Email,
	}
	if err := h.membershipSvc.UpdateReader(r.Context(), reader); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reader)
}
