package http

import (
	"context"
	"net/http"
	"strings"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/logger"
	"libraflow-backend/internal/security"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware validates bearer tokens and places the authenticated
// principal in the request context.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := m.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.Type != security.TokenTypeAccess {
			logger.Debug("token rejected", "error", err, "path", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, claims.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff gates staff-only endpoints. Must run after Authenticate.
func RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFrom(r.Context())
		if !ok || !p.IsStaff() {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "staff access required"})
			return
		}
		next(w, r)
	}
}

func principalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}
