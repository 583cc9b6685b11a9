package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteJournal writes entries to a SQLite database.
type SQLiteJournal struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteJournal opens (or creates) a journal at path.
// Use ":memory:" for tests.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS invocations (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			broker_id TEXT NOT NULL,
			invocation_id INTEGER NOT NULL,
			event TEXT NOT NULL,
			message_type TEXT NOT NULL,
			lifetime TEXT NOT NULL,
			handlers INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_invocations_event
		ON invocations(event)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Record implements Journal.
func (j *SQLiteJournal) Record(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := j.db.Exec(`
		INSERT INTO invocations
			(broker_id, invocation_id, event, message_type, lifetime, handlers, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.BrokerID, int64(e.InvocationID), e.Event, e.MessageType, e.Lifetime, e.Handlers,
		ts.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}
	return nil
}

// List implements Journal.
func (j *SQLiteJournal) List(event string, limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return nil, ErrClosed
	}

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := j.db.Query(`
		SELECT broker_id, invocation_id, event, message_type, lifetime, handlers, timestamp
		FROM invocations
		WHERE ? = '' OR event = ?
		ORDER BY seq
		LIMIT ?
	`, event, event, limit)
	if err != nil {
		return nil, fmt.Errorf("list invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var id int64
		var ts string
		if err := rows.Scan(&e.BrokerID, &id, &e.Event, &e.MessageType, &e.Lifetime, &e.Handlers, &ts); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		e.InvocationID = uint64(id)
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocations: %w", err)
	}
	return entries, nil
}

// Count implements Journal.
func (j *SQLiteJournal) Count() (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return 0, ErrClosed
	}

	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM invocations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invocations: %w", err)
	}
	return n, nil
}

// Close implements Journal.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
