package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lyall/statusd/internal/api/handler"
	"github.com/lyall/statusd/internal/version"
)

// Config holds API configuration
type Config struct {
	Service string
	Version version.Version
	Logger  *slog.Logger
}

// NewRouter creates a new HTTP router serving GET / only
func NewRouter(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	service := cfg.Service
	if service == "" {
		service = handler.ServiceName
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	statusHandler := handler.NewStatusHandler(service, cfg.Version, logger)

	r.Get("/", statusHandler.Status)
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed("/", http.MethodGet))

	return r
}
