package http

import (
	"net/http"

	"libraflow-backend/internal/service"
)

type ViolationHandler struct {
	violationSvc service.ViolationService
}

func NewViolationHandler(violationSvc service.ViolationService) *ViolationHandler {
	return &ViolationHandler{violationSvc: violationSvc}
}

// ListByReader shows a reader's fines. Readers see their own; staff anyone's.
func (h *ViolationHandler) ListByReader(w http.ResponseWriter, r *http.Request) {
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

	page, pageSize := pageParams(r)
	violations, total, err := h.violationSvc.ListByReader(r.Context(), readerID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: violations, Total: total, Page: page})
}

// Pay settles one violation. Staff-only: payments are taken at the desk.
func (h *ViolationHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	v, err := h.violationSvc.Pay(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
