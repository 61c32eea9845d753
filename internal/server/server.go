// Package server exposes the snapshot, comparison, export, and analytics
// operations over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rs/cors"

	"github.com/rpattn/feedtrack/internal/analytics"
	"github.com/rpattn/feedtrack/internal/domain"
	"github.com/rpattn/feedtrack/internal/feedxml"
	"github.com/rpattn/feedtrack/internal/fetch"
	"github.com/rpattn/feedtrack/internal/snapshot"
)

// Server routes HTTP requests to the core services.
type Server struct {
	snapshots  *snapshot.Service
	fetcher    snapshot.Fetcher
	events     *analytics.Store
	recorder   *analytics.Recorder
	adminToken string
	origins    []string
}

// New assembles the HTTP surface. recorder may be nil when analytics is
// disabled; events may be nil to disable the analytics API entirely.
func New(
	snapshots *snapshot.Service,
	fetcher snapshot.Fetcher,
	events *analytics.Store,
	recorder *analytics.Recorder,
	adminToken string,
	origins []string,
) *Server {
	return &Server{
		snapshots:  snapshots,
		fetcher:    fetcher,
		events:     events,
		recorder:   recorder,
		adminToken: adminToken,
		origins:    origins,
	}
}

// Handler returns the fully wrapped HTTP handler: routes, CORS, request
// logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/snapshots", s.handleCreateSnapshot)
	mux.HandleFunc("POST /api/comparisons", s.handleCompare)
	mux.HandleFunc("POST /api/comparisons/export", s.handleExport)
	mux.HandleFunc("GET /api/fetch-xml", s.handleFetchXML)
	mux.HandleFunc("POST /api/analytics", s.handleRecordEvents)
	mux.HandleFunc("GET /api/analytics", s.handleAnalyticsReport)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return LoggingMiddleware(corsHandler.Handler(mux))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusForError maps the error taxonomy onto HTTP statuses: caller mistakes
// are 400, inputs the parser rejected are 422, upstream feed failures are
// 502.
func statusForError(err error) int {
	var parseErr *feedxml.ParseError
	var sourceErr *fetch.SourceError
	switch {
	case errors.Is(err, snapshot.ErrNoSource):
		return http.StatusBadRequest
	case errors.As(err, &sourceErr):
		return http.StatusBadGateway
	case errors.As(err, &parseErr),
		errors.Is(err, snapshot.ErrEmptyResult),
		errors.Is(err, domain.ErrSnapshotFormat):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
