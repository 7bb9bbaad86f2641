package tier

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/afterdarksys/ratecached/pkg/rates"
)

// PostgresTier stores the snapshot in PostgreSQL, for deployments where the
// durable copy is shared between hosts.
type PostgresTier struct {
	db     *sql.DB
	base   string
	window time.Duration
}

// NewPostgres connects to PostgreSQL and prepares the snapshot table.
func NewPostgres(dsn, base string, window time.Duration) (*PostgresTier, error) {
	if dsn == "" {
		return nil, fmt.Errorf("PostgreSQL DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// A single-snapshot cache needs very few connections.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if err := initPostgresSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresTier{
		db:     db,
		base:   base,
		window: window,
	}, nil
}

func initPostgresSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS ratecached_snapshots (
		base TEXT PRIMARY KEY,
		snapshot BYTEA NOT NULL,
		stored_at TIMESTAMP NOT NULL
	);
	`

	_, err := db.Exec(schema)
	return err
}

func (p *PostgresTier) Name() string {
	return "postgres"
}

func (p *PostgresTier) Read(ctx context.Context) (*rates.Snapshot, error) {
	var data []byte
	var storedAt time.Time

	err := p.db.QueryRowContext(ctx, `
		SELECT snapshot, stored_at
		FROM ratecached_snapshots
		WHERE base = $1
	`, p.base).Scan(&data, &storedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot row: %w", err)
	}

	if time.Since(storedAt) >= p.window {
		return nil, nil
	}

	snap, err := rates.Decode(data)
	if err != nil {
		return nil, &CorruptError{Tier: p.Name(), Err: err}
	}
	return snap, nil
}

func (p *PostgresTier) Write(ctx context.Context, snap *rates.Snapshot) error {
	data, err := rates.Encode(snap)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO ratecached_snapshots (base, snapshot, stored_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (base) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			stored_at = EXCLUDED.stored_at
	`, p.base, data, time.Now())

	if err != nil {
		return fmt.Errorf("failed to write snapshot row: %w", err)
	}
	return nil
}

func (p *PostgresTier) CanWrite() bool {
	return true
}

func (p *PostgresTier) Close() error {
	return p.db.Close()
}
