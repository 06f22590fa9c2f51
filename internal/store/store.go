// Package store is the terminal's last-known-good cache. Successful fetches
// are written here so the dashboard has something to paint immediately on
// startup and degrades to stale data instead of a blank screen when the
// backend is unreachable.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Payload kinds.
const (
	KindInference = "inference"
	KindNews      = "news"
	KindLogs      = "logs"
)

// ErrMiss is returned by Get when no payload of the requested kind exists.
var ErrMiss = errors.New("cache miss")

// Store wraps a single-table sqlite cache.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates (or opens) the cache database at path. The cache profile
// trades durability for speed; losing this file only costs one refresh.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if !strings.HasPrefix(path, "file:") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		path = absPath
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	connStr := path + sep + "_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(OFF)" +
		"&_pragma=temp_store(MEMORY)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// The TUI is single-threaded; one connection avoids writer contention.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:  db,
		log: log.With().Str("component", "store").Logger(),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS cache (
			kind       TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	return nil
}

// Put stores a payload under kind, replacing any previous one.
func (s *Store) Put(kind string, v any) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO cache (kind, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, kind, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store %s payload: %w", kind, err)
	}
	return nil
}

// Get loads the payload stored under kind into out and returns when it was
// fetched. Returns ErrMiss when nothing is cached.
func (s *Store) Get(kind string, out any) (time.Time, error) {
	var payload []byte
	var fetchedAt int64
	err := s.db.QueryRow(`SELECT payload, fetched_at FROM cache WHERE kind = ?`, kind).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrMiss
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load %s payload: %w", kind, err)
	}
	if err := msgpack.Unmarshal(payload, out); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode %s payload: %w", kind, err)
	}
	return time.Unix(fetchedAt, 0), nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
