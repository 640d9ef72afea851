package httpapi

import (
	"net/http"

	"github.com/dsjohal14/corphealth/internal/libs/obs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// RouterConfig holds settings for NewRouter
type RouterConfig struct {
	// CORSOrigins lists allowed origins; "*" or an empty list allows any origin
	CORSOrigins []string

	// AccessLogger receives one event per request
	AccessLogger zerolog.Logger
}

// NewRouter mounts the API under /api and the health check at /health
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.RequestLogger(cfg.AccessLogger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(cfg.CORSOrigins)))

	// Routes
	r.Get("/health", h.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.HandleRoot)
		r.Post("/status", h.HandleCreateStatus)
		r.Get("/status", h.HandleListStatus)
		r.Post("/contact", h.HandleCreateContact)
		r.Get("/contact", h.HandleListContact)
		r.Get("/services", h.HandleListServices)
	})

	return r
}

// corsOptions allows every method and header with credentials.
// A wildcard origin reflects the caller's Origin, since browsers reject
// "*" on credentialed responses.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}

	for _, origin := range origins {
		if origin == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return opts
}
