package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-analyzer/internal/api/middleware"
)

// RouteOptions guard the upload endpoints.
type RouteOptions struct {
	MaxUploadBytes int64
	Limiter        *middleware.RateLimiter
}

func (o RouteOptions) guard(h http.HandlerFunc) http.Handler {
	var handler http.Handler = h
	if o.MaxUploadBytes > 0 {
		handler = middleware.MaxBytes(o.MaxUploadBytes)(handler)
	}
	if o.Limiter != nil {
		handler = o.Limiter.Middleware(handler)
	}
	return handler
}

// RegisterRoutes registers the JSON API routes.
func (h *SessionsHandler) RegisterRoutes(router *mux.Router, opts RouteOptions) {
	router.HandleFunc("/api/sessions", h.CreateSession).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)
	router.Handle("/api/sessions/{id}/statement", opts.guard(h.AnalyzeStatement)).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/{id}/statement", h.ClearStatement).Methods(http.MethodDelete)
}

// RegisterRoutes registers the category listing.
func (h *CategoriesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/categories", h.ListCategories).Methods(http.MethodGet)
}

// RegisterRoutes registers the browser page routes.
func (h *PageHandler) RegisterRoutes(router *mux.Router, opts RouteOptions) {
	router.HandleFunc("/", h.Index).Methods(http.MethodGet)
	router.Handle("/upload", opts.guard(h.Upload)).Methods(http.MethodPost)
	router.HandleFunc("/clear", h.Clear).Methods(http.MethodPost)
}

// NewRouter wires every handler and the middleware chain into one handler.
func NewRouter(sessions *SessionsHandler, pages *PageHandler, opts RouteOptions, log zerolog.Logger) http.Handler {
	router := mux.NewRouter()

	sessions.RegisterRoutes(router, opts)
	NewCategoriesHandler().RegisterRoutes(router)
	pages.RegisterRoutes(router, opts)
	router.HandleFunc("/health", Health).Methods(http.MethodGet)

	return middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(router),
			),
		),
	)
}
