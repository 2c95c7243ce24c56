package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type pagedResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
	Page  int32 `json:"page"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// writeError translates the service error taxonomy to HTTP status codes:
// not-found 404, unauthorized 403, validation and business rules 400,
// everything else 500 with the detail kept out of the response body.
func writeError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	var bErr *domain.BusinessError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Reason, Field: vErr.Field})
	case errors.As(err, &bErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: bErr.Reason})
	default:
		logger.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "invalid request body"}
	}
	return nil
}
