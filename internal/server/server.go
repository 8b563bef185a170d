// Package server exposes the aggregator over HTTP: a read-only endpoint
// serving the cache document, a token-gated refresh trigger, health and
// prometheus metrics. Reads never trigger scraping.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/txbeach/sandcal/internal/cache"
	"github.com/txbeach/sandcal/internal/calendar"
	"github.com/txbeach/sandcal/internal/logger"
	"github.com/txbeach/sandcal/internal/refresh"
)

// Server wires handlers over the cache store and refresh runner.
type Server struct {
	store        *cache.Store
	runner       *refresh.Runner
	refreshToken string
	corsOrigins  []string
}

// New creates a server. refreshToken guards POST /refresh; when empty,
// the endpoint rejects every request.
func New(store *cache.Store, runner *refresh.Runner, refreshToken string, corsOrigins []string) *Server {
	return &Server{
		store:        store,
		runner:       runner,
		refreshToken: refreshToken,
		corsOrigins:  corsOrigins,
	}
}

// Router builds the HTTP routes with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Refresh-Token"},
		MaxAge:         300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(10 * time.Second))
		r.Get("/api/tournaments", s.handleTournaments)
		r.Get("/calendar.ics", s.handleCalendar)
		r.Get("/healthz", s.handleHealth)
		r.Handle("/metrics", promhttp.Handler())
	})

	// The refresh route runs the whole pipeline synchronously, so it
	// stays outside the read timeout group.
	r.Post("/refresh", s.handleRefresh)

	return r
}

// handleTournaments serves the cache document. The absent-file case
// yields a valid empty aggregate rather than an error.
func (s *Server) handleTournaments(w http.ResponseWriter, r *http.Request) {
	agg, err := s.store.Load()
	if err != nil {
		logger.Error("loading cache", nil, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cache unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// handleCalendar serves the dataset as a subscribable iCalendar feed.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	agg, err := s.store.Load()
	if err != nil {
		logger.Error("loading cache", nil, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cache unavailable"})
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Write([]byte(calendar.GenerateICS(agg)))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid token"})
		return
	}

	agg, err := s.runner.Run(r.Context())
	if err != nil {
		if errors.Is(err, refresh.ErrAlreadyRunning) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "refresh already running"})
			return
		}
		logger.Error("refresh failed", nil, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"updated_at":  agg.UpdatedAt,
		"tournaments": len(agg.Tournaments),
		"errors":      agg.Errors,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authorized checks the refresh token from the header or, for curl
// convenience, the query string. Comparison is constant-time.
func (s *Server) authorized(r *http.Request) bool {
	if s.refreshToken == "" {
		return false
	}
	supplied := r.Header.Get("X-Refresh-Token")
	if supplied == "" {
		supplied = r.URL.Query().Get("token")
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(s.refreshToken)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", nil, err)
	}
}
