package analytics

import "time"

// Totals aggregates lifetime counters for the retrieval API.
type Totals struct {
	Events      int `json:"events"`
	Sessions    int `json:"sessions"`
	Snapshots   int `json:"snapshots"`
	Comparisons int `json:"comparisons"`
	Exports     int `json:"exports"`
	Errors      int `json:"errors"`
}

// TimeRanges counts events inside trailing windows.
type TimeRanges struct {
	Last24h int `json:"last24h"`
	Last7d  int `json:"last7d"`
	Last30d int `json:"last30d"`
}

// Stats is the rollup served alongside raw events.
type Stats struct {
	Total        Totals         `json:"total"`
	TimeRanges   TimeRanges     `json:"timeRanges"`
	EventsByType map[string]int `json:"eventsByType"`
	EventsByDay  map[string]int `json:"eventsByDay"`
}

// ComputeStats rolls events up into counts by type, by day, unique sessions,
// feature totals, and trailing time windows.
func ComputeStats(events []Event, now time.Time) Stats {
	stats := Stats{
		EventsByType: map[string]int{},
		EventsByDay:  map[string]int{},
	}

	last24h := now.Add(-24 * time.Hour)
	last7d := now.Add(-7 * 24 * time.Hour)
	last30d := now.Add(-30 * 24 * time.Hour)
	sessions := map[string]struct{}{}

	for _, e := range events {
		stats.EventsByType[e.Event]++
		stats.EventsByDay[e.Timestamp.UTC().Format("2006-01-02")]++

		if e.SessionID != "" {
			sessions[e.SessionID] = struct{}{}
		}

		switch e.Event {
		case "snapshot_created":
			stats.Total.Snapshots++
		case "comparison_made":
			stats.Total.Comparisons++
		case "csv_export":
			stats.Total.Exports++
		case "error":
			stats.Total.Errors++
		}

		if e.Timestamp.After(last24h) {
			stats.TimeRanges.Last24h++
		}
		if e.Timestamp.After(last7d) {
			stats.TimeRanges.Last7d++
		}
		if e.Timestamp.After(last30d) {
			stats.TimeRanges.Last30d++
		}
	}

	stats.Total.Events = len(events)
	stats.Total.Sessions = len(sessions)
	return stats
}
