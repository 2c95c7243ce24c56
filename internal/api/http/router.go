package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"libraflow-backend/internal/security"
	"libraflow-backend/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth          service.AuthService
	Membership    service.MembershipService
	Catalog       service.CatalogService
	Circulation   service.CirculationService
	Violations    service.ViolationService
	Notifications service.NotificationService
}

// NewRouter builds the full API surface. Public routes: registration,
// login, refresh, catalog browsing. Everything else requires a token;
// staff-only routes are additionally gated on the principal kind.
func NewRouter(svcs Services, tokens security.TokenManager) *mux.Router {
	authHandler := NewAuthHandler(svcs.Auth, svcs.Membership)
	bookHandler := NewBookHandler(svcs.Catalog)
	borrowHandler := NewBorrowHandler(svcs.Circulation)
	readerHandler := NewReaderHandler(svcs.Membership)
	violationHandler := NewViolationHandler(svcs.Violations)
	noteHandler := NewNotificationHandler(svcs.Notifications)

	authMw := NewAuthMiddleware(tokens)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login/reader", authHandler.LoginReader).Methods(http.MethodPost)
	api.HandleFunc("/auth/login/staff", authHandler.LoginStaff).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/books", bookHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", bookHandler.Get).Methods(http.MethodGet)

	// Authenticated
	auth := api.NewRoute().Subrouter()
	auth.Use(authMw.Authenticate)

	auth.HandleFunc("/borrows", borrowHandler.Create).Methods(http.MethodPost)
	auth.HandleFunc("/borrows/{id:[0-9]+}/cancel", borrowHandler.Cancel).Methods(http.MethodPost)
	auth.HandleFunc("/borrows/{id:[0-9]+}/renew", borrowHandler.Renew).Methods(http.MethodPost)
	auth.HandleFunc("/readers/{id:[0-9]+}", readerHandler.Get).Methods(http.MethodGet)
	auth.HandleFunc("/readers/{id:[0-9]+}", readerHandler.Update).Methods(http.MethodPut)
	auth.HandleFunc("/readers/{id:[0-9]+}/borrows", borrowHandler.History).Methods(http.MethodGet)
	auth.HandleFunc("/readers/{id:[0-9]+}/violations", violationHandler.ListByReader).Methods(http.MethodGet)
	auth.HandleFunc("/notifications", noteHandler.List).Methods(http.MethodGet)
	auth.HandleFunc("/notifications/{id:[0-9]+}/read", noteHandler.MarkAsRead).Methods(http.MethodPost)

	// Staff only
	auth.HandleFunc("/books", RequireStaff(bookHandler.Create)).Methods(http.MethodPost)
	auth.HandleFunc("/books/{id:[0-9]+}", RequireStaff(bookHandler.Update)).Methods(http.MethodPut)
	auth.HandleFunc("/books/{id:[0-9]+}", RequireStaff(bookHandler.Delete)).Methods(http.MethodDelete)
	auth.HandleFunc("/borrows", RequireStaff(borrowHandler.List)).Methods(http.MethodGet)
	auth.HandleFunc("/borrows/{id:[0-9]+}/approve", RequireStaff(borrowHandler.Approve)).Methods(http.MethodPost)
	auth.HandleFunc("/borrows/{id:[0-9]+}/issue", RequireStaff(borrowHandler.Issue)).Methods(http.MethodPost)
	auth.HandleFunc("/borrows/{id:[0-9]+}/reject", RequireStaff(borrowHandler.Reject)).Methods(http.MethodPost)
	auth.HandleFunc("/borrows/{id:[0-9]+}/return", RequireStaff(borrowHandler.Return)).Methods(http.MethodPost)
	auth.HandleFunc("/readers", RequireStaff(readerHandler.List)).Methods(http.MethodGet)
	auth.HandleFunc("/violations/{id:[0-9]+}/pay", RequireStaff(violationHandler.Pay)).Methods(http.MethodPost)

	return r
}
