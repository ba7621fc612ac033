// Package server exposes the report engine over HTTP: grading standard
// inspection, report generation and the region directory.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/agrisurvey/soilreport/internal/config"
	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/store"
)

// Server wires the registry, report generation and the store behind a chi
// router.
type Server struct {
	registry    *grading.Registry
	store       store.Store
	limiter     *rate.Limiter
	concurrency int
}

// New builds a Server. The store may be nil; report and region endpoints
// then answer 503.
func New(registry *grading.Registry, st store.Store, cfg config.ServerConfig) *Server {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}
	return &Server{
		registry: registry,
		store:    st,
		limiter:  rate.NewLimiter(rate.Limit(limit), burst),
	}
}

// SetReportConcurrency sets the attribute worker count used by report
// generation. Values below one keep the generator's default.
func (s *Server) SetReportConcurrency(n int) {
	s.concurrency = n
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.throttle)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/standards", s.handleListStandards)
		r.Get("/standards/{id}", s.handleGetStandard)
		r.Post("/standards/active", s.handleSetActiveStandard)

		r.Route("/reports", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Post("/", s.handleCreateReport)
			r.Get("/", s.handleListReports)
			r.Get("/{id}", s.handleGetReport)
		})

		r.Route("/regions", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/", s.handleListRegions)
			r.Post("/", s.handleUpsertRegion)
			r.Delete("/{id}", s.handleDeleteRegion)
		})
	})

	return r
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "no store configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
