package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpattn/feedtrack/internal/analytics"
)

func seedEvents(t *testing.T, f *serverFixture, events []analytics.Event) {
	t.Helper()
	if err := f.store.Insert(context.Background(), events); err != nil {
		t.Fatalf("seed events: %v", err)
	}
}

func TestRecordEvents(t *testing.T) {
	f := newFixture(t, &stubFetcher{})

	rec := f.do(postJSON("/api/analytics", map[string]any{
		"events": []map[string]any{
			{"event": "snapshot_created", "sessionId": "s1", "properties": map[string]any{"source": "file"}},
			{"event": "csv_export", "sessionId": "s1"},
		},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Success bool `json:"success"`
		Stored  int  `json:"stored"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Stored != 2 {
		t.Errorf("response = %+v", resp)
	}

	count, err := f.store.Count(context.Background(), analytics.Query{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("stored count = %d, want 2", count)
	}
}

func TestRecordEventsRejectsEmptyBatch(t *testing.T) {
	f := newFixture(t, &stubFetcher{})

	rec := f.do(postJSON("/api/analytics", map[string]any{"events": []any{}}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = f.do(postJSON("/api/analytics", "not an object"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed body", rec.Code)
	}
}

func reportRequest(token string, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/analytics"+query, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAnalyticsReportRequiresAdminToken(t *testing.T) {
	f := newFixture(t, &stubFetcher{})

	if rec := f.do(reportRequest("", "")); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}
	if rec := f.do(reportRequest("wrong-token", "")); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestAnalyticsReport(t *testing.T) {
	f := newFixture(t, &stubFetcher{})
	base := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	seedEvents(t, f, []analytics.Event{
		{Event: "snapshot_created", Timestamp: base, SessionID: "s1"},
		{Event: "comparison_made", Timestamp: base.Add(time.Hour), SessionID: "s2"},
	})

	rec := f.do(reportRequest("test-admin-token", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Events []analytics.Event `json:"events"`
		Stats  analytics.Stats   `json:"stats"`
		Total  int               `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 2 || resp.Total != 2 {
		t.Errorf("events = %d, total = %d", len(resp.Events), resp.Total)
	}
	if resp.Stats.Total.Snapshots != 1 || resp.Stats.Total.Comparisons != 1 || resp.Stats.Total.Sessions != 2 {
		t.Errorf("stats = %+v", resp.Stats.Total)
	}
}

func TestAnalyticsReportFilters(t *testing.T) {
	f := newFixture(t, &stubFetcher{})
	base := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	seedEvents(t, f, []analytics.Event{
		{Event: "snapshot_created", Timestamp: base, SessionID: "s"},
		{Event: "error", Timestamp: base.Add(time.Hour), SessionID: "s"},
		{Event: "error", Timestamp: base.Add(48 * time.Hour), SessionID: "s"},
	})

	rec := f.do(reportRequest("test-admin-token", "?eventType=error&startDate=2026-02-10&endDate=2026-02-11"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Events []analytics.Event `json:"events"`
		Total  int               `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || len(resp.Events) != 1 || resp.Events[0].Event != "error" {
		t.Errorf("filtered response: total = %d, events = %+v", resp.Total, resp.Events)
	}
}

func TestAnalyticsReportRejectsBadParams(t *testing.T) {
	f := newFixture(t, &stubFetcher{})

	cases := []string{
		"?startDate=yesterday",
		"?endDate=02-10-2026",
		"?limit=0",
		"?limit=lots",
	}
	for _, q := range cases {
		if rec := f.do(reportRequest("test-admin-token", q)); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}
