// Package api exposes FinFetch over HTTP: technical reports, fundamentals,
// news, and combined bundles per ticker.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/finfetch/internal/aggregate"
	"github.com/seenimoa/finfetch/internal/config"
)

// Server is the HTTP API server.
type Server struct {
	cfg        config.APIConfig
	aggregator *aggregate.Aggregator
	httpServer *http.Server
}

// NewServer builds the API server over a wired aggregator.
func NewServer(cfg config.APIConfig, aggregator *aggregate.Aggregator) *Server {
	s := &Server{cfg: cfg, aggregator: aggregator}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/technical/{ticker}", s.handleTechnical)
		r.Get("/fundamental/{ticker}", s.handleFundamental)
		r.Get("/news/{ticker}", s.handleNews)
		r.Get("/bundle/{ticker}", s.handleBundle)
	})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second,
	}
	return s
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[api] listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

func (s *Server) handleTechnical(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	period := queryDefault(r, "period", "1y")
	interval := queryDefault(r, "interval", "1d")

	report := s.aggregator.Technical.Analyze(r.Context(), ticker, period, interval)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFundamental(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	force := r.URL.Query().Get("refresh") == "true"

	metrics := s.aggregator.Fundamentals.Fetch(r.Context(), ticker, "", force)
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	articles := s.aggregator.News.FetchStockNews(r.Context(), ticker, "")
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	opts := aggregate.DefaultBundleOptions()
	opts.Period = queryDefault(r, "period", opts.Period)
	opts.Interval = queryDefault(r, "interval", opts.Interval)
	opts.ForceRefresh = r.URL.Query().Get("refresh") == "true"

	bundle, err := s.aggregator.FetchBundle(r.Context(), ticker, opts)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func queryDefault(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}
