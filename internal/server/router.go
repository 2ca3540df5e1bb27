package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gestordocs/docanalyzer/internal/export"
)

// Options wires the router's collaborators and limits.
type Options struct {
	Service        *Service
	Export         *export.Service
	MaxUploadBytes int64
	Health         func() error
	Log            *slog.Logger
}

// NewRouter builds the HTTP surface.
func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	h := &handlers{
		svc:       opts.Service,
		export:    opts.Export,
		maxUpload: opts.MaxUploadBytes,
		health:    opts.Health,
		log:       log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Route("/api", func(r chi.Router) {
		r.Post("/documents", h.uploadDocument)
		r.Get("/documents", h.listDocuments)
		r.Get("/documents/{id}", h.getDocument)
		r.Get("/export/xlsx", h.exportXLSX)
	})
	return r
}
