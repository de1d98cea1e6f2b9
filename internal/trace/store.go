package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store appends trace events to a SQLite log. It is a Recorder; insert
// failures are logged and dropped so instrumentation can never fail an
// engine call.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenStore creates or opens the trace database at path. Applies WAL
// mode, a busy timeout, and the schema. Idempotent.
func OpenStore(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect trace db: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection
	// to avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply trace schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one event. Duplicate (session, seq) pairs are silently
// ignored for idempotency; other failures are logged and dropped.
func (s *Store) Record(ev Event) {
	_, err := s.db.Exec(`
		INSERT INTO events (session, seq, op, backend, depth, result, err)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session, seq) DO NOTHING
	`, ev.Session, ev.Seq, ev.Op, ev.Backend, ev.Depth, ev.Result, ev.Err)
	if err != nil {
		s.log.Warn("trace insert dropped", "seq", ev.Seq, "err", err)
	}
}

// ReadSession returns every event of a session in seq order.
func (s *Store) ReadSession(ctx context.Context, session string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, seq, op, backend, depth, result, err
		FROM events
		WHERE session = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", session, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.Session, &ev.Seq, &ev.Op, &ev.Backend,
			&ev.Depth, &ev.Result, &ev.Err); err != nil {
			return nil, fmt.Errorf("scan trace event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Sessions lists distinct session tokens, oldest first (UUIDv7 tokens
// sort by creation time).
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT session FROM events ORDER BY session ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, tok)
	}
	return out, rows.Err()
}
