package tier

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/afterdarksys/ratecached/pkg/rates"
)

// SQLiteTier stores the snapshot in a local SQLite database, one row per
// base currency. Freshness is the stored_at column compared against the
// window.
type SQLiteTier struct {
	db     *sql.DB
	base   string
	window time.Duration
}

// NewSQLite opens (or creates) the SQLite tier. An empty path defaults to
// ~/.ratecached/rates.db.
func NewSQLite(path, base string, window time.Duration) (*SQLiteTier, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".ratecached", "rates.db")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteTier{
		db:     db,
		base:   base,
		window: window,
	}, nil
}

func initSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS rate_snapshots (
		base TEXT PRIMARY KEY,
		snapshot BLOB NOT NULL,
		stored_at TIMESTAMP NOT NULL
	);
	`

	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteTier) Name() string {
	return "sqlite"
}

func (s *SQLiteTier) Read(ctx context.Context) (*rates.Snapshot, error) {
	var data []byte
	var storedAt time.Time

	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot, stored_at
		FROM rate_snapshots
		WHERE base = ?
	`, s.base).Scan(&data, &storedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot row: %w", err)
	}

	if time.Since(storedAt) >= s.window {
		return nil, nil
	}

	snap, err := rates.Decode(data)
	if err != nil {
		return nil, &CorruptError{Tier: s.Name(), Err: err}
	}
	return snap, nil
}

func (s *SQLiteTier) Write(ctx context.Context, snap *rates.Snapshot) error {
	data, err := rates.Encode(snap)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rate_snapshots (base, snapshot, stored_at)
		VALUES (?, ?, ?)
	`, s.base, data, time.Now())

	if err != nil {
		return fmt.Errorf("failed to write snapshot row: %w", err)
	}
	return nil
}

func (s *SQLiteTier) CanWrite() bool {
	return true
}

func (s *SQLiteTier) Close() error {
	return s.db.Close()
}
