package api

import (
	"database/sql"
	"net/http"

	"github.com/foundit-unsri/foundit/internal/auth"
	"github.com/foundit-unsri/foundit/internal/item"
)

// NewRouter creates the JSON router. Registration is served only when
// registration is true; otherwise POST /register answers 403.
func NewRouter(db *sql.DB, items *item.Service, authService *auth.Service, registration bool) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Auth: authService, RegistrationEnabled: registration}
	itemsHandler := &ItemsHandler{Items: items}
	healthHandler := &HealthHandler{DB: db}

	mux.HandleFunc("POST /register", authHandler.Register)

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)

	mux.HandleFunc("GET /healthz", healthHandler.Check)

	return mux
}
