package cache

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vmihailenco/msgpack/v5"

	"packlens/internal/parsing"
)

// SQLite is a cache backed by a single SQLite database. Entries are
// msgpack-encoded ProcessedFile blobs keyed by path, with the content
// digest stored alongside for staleness checks. Writes go through a
// mutex; SQLite serializes them anyway and the engine's workers put
// concurrently.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLite opens (or creates) the cache database at dbPath with WAL
// mode enabled.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache database: %w", err)
	}
	if _, err := db.Exec(cacheDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &SQLite{db: db}, nil
}

const cacheDDL = `
CREATE TABLE IF NOT EXISTS processed_files (
  path    TEXT PRIMARY KEY,
  digest  TEXT NOT NULL,
  payload BLOB NOT NULL
);
`

// Get returns the cached result for path if it was computed from
// contents with the given digest. Any decode failure is treated as a
// miss; the entry will be overwritten on the next Put.
func (c *SQLite) Get(path, digest string) (parsing.ProcessedFile, bool) {
	var storedDigest string
	var payload []byte
	err := c.db.QueryRow(
		"SELECT digest, payload FROM processed_files WHERE path = ?", path,
	).Scan(&storedDigest, &payload)
	if err != nil {
		// sql.ErrNoRows and read failures alike are plain misses.
		return parsing.ProcessedFile{}, false
	}
	if storedDigest != digest {
		return parsing.ProcessedFile{}, false
	}

	var processed parsing.ProcessedFile
	if err := msgpack.Unmarshal(payload, &processed); err != nil {
		return parsing.ProcessedFile{}, false
	}
	return processed, true
}

// Put stores the result for path, replacing any previous entry.
func (c *SQLite) Put(path, digest string, processed parsing.ProcessedFile) error {
	payload, err := msgpack.Marshal(processed)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.Exec(
		"INSERT OR REPLACE INTO processed_files (path, digest, payload) VALUES (?, ?, ?)",
		path, digest, payload,
	); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *SQLite) Close() error {
	return c.db.Close()
}
