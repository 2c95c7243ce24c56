package http

import (
	"net/http"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/service"
)

type AuthHandler struct {
	authSvc       service.AuthService
	membershipSvc service.MembershipService
}

func NewAuthHandler(authSvc service.AuthService, membershipSvc service.MembershipService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, membershipSvc: membershipSvc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a reader account. Open endpoint; staff accounts are
// seeded by administrators, not self-registered.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reader, err := h.membershipSvc.RegisterReader(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reader)
}

func (h *AuthHandler) LoginReader(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.PrincipalKindReader)
}

func (h *AuthHandler) LoginStaff(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.PrincipalKindStaff)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, kind domain.PrincipalKind) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	access, refresh, err := h.authSvc.Login(r.Context(), kind, req.Email, req.Password)
	if err != nil {
		// Collapse credential failures to one message; don't leak whether
		// the account exists.
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	access, refresh, err := h.authSvc.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid refresh token"})
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}
