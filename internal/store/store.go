// Package store persists CapitalEvents in a single SQLite database.
// Events are upserted by event id, so re-running a batch is idempotent.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/capevent/internal/model"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database (tests)
const MemoryPath = ":memory:"

// ErrNotFound is returned when no event has the requested id
var ErrNotFound = errors.New("event not found")

const schema = `
CREATE TABLE IF NOT EXISTS capital_events (
	event_id       TEXT PRIMARY KEY,
	event_type     TEXT NOT NULL,
	frame_type     TEXT NOT NULL,
	confidence     REAL NOT NULL,
	subject        TEXT,
	object         TEXT,
	publisher      TEXT NOT NULL,
	url            TEXT NOT NULL,
	title          TEXT NOT NULL,
	occurred_at    TEXT,
	decision       TEXT NOT NULL,
	graph_safe     INTEGER NOT NULL,
	engine_version TEXT NOT NULL,
	payload        TEXT NOT NULL,
	stored_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_capital_events_type ON capital_events(event_type);
CREATE INDEX IF NOT EXISTS idx_capital_events_graph_safe ON capital_events(graph_safe);
CREATE INDEX IF NOT EXISTS idx_capital_events_occurred ON capital_events(occurred_at);
`

// ListOpts filters and paginates List
type ListOpts struct {
	EventType     model.EventType // Empty matches all
	Publisher     string
	GraphSafeOnly bool
	Limit         int // 0 means 100
	Offset        int
}

// Stats summarises stored events
type Stats struct {
	Total     int64
	GraphSafe int64
	Rejected  int64
	ByType    map[model.EventType]int64
}

// Store is the SQLite event sink
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Open opens or creates the database at dbPath and applies the schema
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("open store: empty database path")
	}
	dbPath = ExpandPath(dbPath)

	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: writes serialize anyway and :memory: is per-connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts one event
func (s *Store) Put(ctx context.Context, ev *model.CapitalEvent) error {
	return s.PutBatch(ctx, []*model.CapitalEvent{ev})
}

// PutBatch upserts events in one transaction
func (s *Store) PutBatch(ctx context.Context, events []*model.CapitalEvent) (err error) {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO capital_events (
			event_id, event_type, frame_type, confidence, subject, object,
			publisher, url, title, occurred_at, decision, graph_safe,
			engine_version, payload, stored_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			event_type = excluded.event_type,
			frame_type = excluded.frame_type,
			confidence = excluded.confidence,
			subject = excluded.subject,
			object = excluded.object,
			publisher = excluded.publisher,
			url = excluded.url,
			title = excluded.title,
			occurred_at = excluded.occurred_at,
			decision = excluded.decision,
			graph_safe = excluded.graph_safe,
			engine_version = excluded.engine_version,
			payload = excluded.payload,
			stored_at = excluded.stored_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	storedAt := s.now().UTC().Format(time.RFC3339)
	for _, ev := range events {
		if ev == nil || ev.EventID == "" {
			return fmt.Errorf("put event: missing event id")
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", ev.EventID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			ev.EventID,
			string(ev.EventType),
			string(ev.FrameType),
			ev.FrameConfidence,
			nullable(ev.Subject),
			nullable(ev.Object),
			ev.Source.Publisher,
			ev.Source.URL,
			ev.Source.Title,
			nullable(ev.OccurredAt),
			string(ev.Extraction.Decision),
			ev.Extraction.GraphSafe,
			ev.EngineVersion,
			string(payload),
			storedAt,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", ev.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Get returns the event with id, or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*model.CapitalEvent, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM capital_events WHERE event_id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return decode(payload)
}

// List returns events newest first; events without a date sort last
func (s *Store) List(ctx context.Context, opts ListOpts) ([]*model.CapitalEvent, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	var where []string
	var args []any
	if opts.EventType != "" {
		where = append(where, "event_type = ?")
		args = append(args, string(opts.EventType))
	}
	if opts.Publisher != "" {
		where = append(where, "publisher = ?")
		args = append(args, opts.Publisher)
	}
	if opts.GraphSafeOnly {
		where = append(where, "graph_safe = 1")
	}

	query := "SELECT payload FROM capital_events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at IS NULL, occurred_at DESC, event_id LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*model.CapitalEvent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev, err := decode(payload)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Stats counts stored events
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{ByType: make(map[model.EventType]int64)}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(graph_safe), 0),
		       COALESCE(SUM(CASE WHEN decision = ? THEN 1 ELSE 0 END), 0)
		FROM capital_events`, string(model.DecisionReject)).Scan(&st.Total, &st.GraphSafe, &st.Rejected)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT event_type, COUNT(*) FROM capital_events GROUP BY event_type`)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var t string
		var n int64
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		st.ByType[model.EventType(t)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return st, nil
}

func decode(payload string) (*model.CapitalEvent, error) {
	var ev model.CapitalEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &ev, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
