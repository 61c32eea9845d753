// Package analytics records operational events without ever getting in the
// way of the operations themselves: recording is fire-and-forget, and the
// event store is an embedded database owned by the process.
package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	event       TEXT NOT NULL,
	timestamp   TEXT NOT NULL,
	session_id  TEXT NOT NULL,
	properties  TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_event ON events(event);
`

// retentionCap bounds the stored history; the oldest events beyond it are
// pruned on insert.
const retentionCap = 10000

// Event is one recorded analytics event.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Event      string         `json:"event"`
	Timestamp  time.Time      `json:"timestamp"`
	SessionID  string         `json:"sessionId"`
	Properties map[string]any `json:"properties"`
}

// Store persists events in an embedded sqlite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the event database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create analytics schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Insert stores a batch of events and enforces the retention cap.
func (s *Store) Insert(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (id, event, timestamp, session_id, properties) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now().UTC()
		}
		props, err := json.Marshal(e.Properties)
		if err != nil {
			props = []byte("{}")
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID.String(), e.Event, e.Timestamp.UTC().Format(time.RFC3339Nano), e.SessionID, string(props)); err != nil {
			return fmt.Errorf("insert event %s: %w", e.Event, err)
		}
	}

	// Keep only the newest retentionCap events.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM events WHERE id NOT IN (
			SELECT id FROM events ORDER BY timestamp DESC LIMIT ?
		)`, retentionCap); err != nil {
		return fmt.Errorf("prune events: %w", err)
	}

	return tx.Commit()
}

// Query selects stored events, oldest first.
type Query struct {
	Start time.Time
	End   time.Time
	Event string
	Limit int
}

// Query returns events matching the filter. A zero Limit returns up to 1000
// events, matching the retrieval API default.
func (s *Store) Query(ctx context.Context, q Query) ([]Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 1000
	}

	where := "1=1"
	args := []any{}
	if !q.Start.IsZero() {
		where += " AND timestamp >= ?"
		args = append(args, q.Start.UTC().Format(time.RFC3339Nano))
	}
	if !q.End.IsZero() {
		where += " AND timestamp <= ?"
		args = append(args, q.End.UTC().Format(time.RFC3339Nano))
	}
	if q.Event != "" {
		where += " AND event = ?"
		args = append(args, q.Event)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event, timestamp, session_id, properties
		FROM (
			SELECT * FROM events WHERE `+where+` ORDER BY timestamp DESC LIMIT ?
		) ORDER BY timestamp ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			id, ts, props string
			e             Event
		)
		if err := rows.Scan(&id, &e.Event, &ts, &e.SessionID, &props); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.ID, _ = uuid.Parse(id)
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		if err := json.Unmarshal([]byte(props), &e.Properties); err != nil {
			e.Properties = map[string]any{}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the number of events matching the filter, ignoring Limit.
func (s *Store) Count(ctx context.Context, q Query) (int, error) {
	where := "1=1"
	args := []any{}
	if !q.Start.IsZero() {
		where += " AND timestamp >= ?"
		args = append(args, q.Start.UTC().Format(time.RFC3339Nano))
	}
	if !q.End.IsZero() {
		where += " AND timestamp <= ?"
		args = append(args, q.End.UTC().Format(time.RFC3339Nano))
	}
	if q.Event != "" {
		where += " AND event = ?"
		args = append(args, q.Event)
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
