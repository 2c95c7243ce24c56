package http

import (
	"net/http"

	"libraflow-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

// List returns the calling reader's own notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok || p.IsStaff() {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "reader access required"})
		return
	}

	page, pageSize := pageParams(r)
	notes, total, err := h.noteSvc.GetNotifications(r.Context(), p.ID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: notes, Total: total, Page: page})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok || p.IsStaff() {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "reader access required"})
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.noteSvc.MarkAsRead(r.Context(), p.ID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
