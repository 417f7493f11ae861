package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"travel-ai-planner/internal/domain/ports/repository"
	"travel-ai-planner/internal/usecase"
)

// RateLimiter is what the submit middleware needs from redis.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	planUC  usecase.PlanUseCase
	jobs    repository.PlanJobRepository
	limiter RateLimiter

	jwtSecret  []byte
	rateLimit  int
	rateWindow time.Duration
	modelSet   bool
	log        *zerolog.Logger
}

func NewServer(
	planUC usecase.PlanUseCase,
	jobs repository.PlanJobRepository,
	limiter RateLimiter,
	jwtSecret string,
	rateLimit int,
	rateWindow time.Duration,
	modelConfigured bool,
	logger *zerolog.Logger,
) *Server {
	srvLog := logger.With().Str("component", "web").Logger()
	return &Server{
		planUC:     planUC,
		jobs:       jobs,
		limiter:    limiter,
		jwtSecret:  []byte(jwtSecret),
		rateLimit:  rateLimit,
		rateWindow: rateWindow,
		modelSet:   modelConfigured,
		log:        &srvLog,
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/plans", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.With(s.rateLimitMiddleware).Post("/generate", s.handleGenerate)
		r.Get("/jobs/{jobID}", s.handleGetJob)
		r.Post("/jobs/{jobID}/cancel", s.handleCancelJob)
	})

	return r
}
