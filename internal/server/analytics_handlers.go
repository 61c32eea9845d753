package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rpattn/feedtrack/internal/analytics"
)

type eventBatch struct {
	Events []analytics.Event `json:"events"`
}

// handleRecordEvents stores a batch of client-side events. The endpoint is
// intentionally forgiving: a malformed batch is the only failure it reports.
func (s *Server) handleRecordEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeError(w, http.StatusNotFound, errors.New("analytics is disabled"))
		return
	}

	var batch eventBatch
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode events: %w", err))
		return
	}
	if len(batch.Events) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid events data"))
		return
	}

	if err := s.events.Insert(r.Context(), batch.Events); err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("failed to store analytics"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stored": len(batch.Events)})
}

// handleAnalyticsReport returns stored events plus the stats rollup.
// Admin only: the bearer token must match the configured admin token.
func (s *Server) handleAnalyticsReport(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeError(w, http.StatusNotFound, errors.New("analytics is disabled"))
		return
	}
	if s.adminToken == "" || r.Header.Get("Authorization") != "Bearer "+s.adminToken {
		writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	query := analytics.Query{
		Event: r.URL.Query().Get("eventType"),
	}
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("startDate: %w", err))
			return
		}
		query.Start = t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("endDate: %w", err))
			return
		}
		query.End = t
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		query.Limit = limit
	}

	events, err := s.events.Query(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("failed to retrieve analytics"))
		return
	}
	total, err := s.events.Count(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("failed to retrieve analytics"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"stats":  analytics.ComputeStats(events, time.Now()),
		"total":  total,
	})
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, errors.New("expected RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}
