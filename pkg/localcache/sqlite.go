package localcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteConfig holds configuration for the SQLite-backed store.
type SQLiteConfig struct {
	// Path is the database file; ":memory:" works for ephemeral use.
	Path string
}

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteStore is the durable KVStore used for offline survival: a single
// key-value table in a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if necessary) the database at cfg.Path and
// ensures the entries table exists.
func NewSQLiteStore(cfg *SQLiteConfig, logger zerolog.Logger) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite store path is required")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open cache db at %s: %w", cfg.Path, err)
	}
	if _, err := db.Exec(createEntriesTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	logger.Info().Str("path", cfg.Path).Msg("SQLite cache store opened.")
	return &SQLiteStore{
		db:     db,
		logger: logger.With().Str("component", "SQLiteStore").Logger(),
	}, nil
}

// Get retrieves the value for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("sqlite get for %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("sqlite get for %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, value) VALUES (?, ?)`, key, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite set for %s: %w", key, err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	s.logger.Info().Msg("Closing SQLite cache store.")
	return s.db.Close()
}
