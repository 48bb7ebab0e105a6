// Package server exposes the latest batch output as a read-only HTTP API
// for the dashboard. It serves from memory; nothing here mutates run state.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// Server serves the records of the most recent batch run.
type Server struct {
	cfg     config.ServerConfig
	records []model.DashboardRecord
	limiter *rate.Limiter
}

// New builds a server over a finished run's records.
func New(cfg config.ServerConfig, records []model.DashboardRecord) *Server {
	return &Server{
		cfg:     cfg,
		records: records,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
}

// Routes assembles the router with CORS and rate limiting applied to every
// endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Get("/customers", s.handleCustomers)
	r.Get("/customer/{name}", s.handleCustomer)
	r.Get("/strategies", s.handleStrategies)
	r.Get("/priorities", s.handlePriorities)
	r.Get("/industries", s.handleIndustries)
	r.Get("/search", s.handleSearch)

	return r
}

// ListenAndServe runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("server: shutting down")
		srv.Shutdown(context.Background())
	}()

	zap.L().Info("server: listening",
		zap.Int("port", s.cfg.Port),
		zap.Int("records", len(s.records)))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
