package tier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afterdarksys/ratecached/pkg/rates"
)

// Tier is one storage backend in the fallback chain. Tiers are ordered by
// cost: an in-memory copy, then a durable copy, then the authoritative
// remote source.
type Tier interface {
	// Name identifies the tier in logs and status output.
	Name() string

	// Read returns the tier's current snapshot if it holds one it still
	// considers fresh. A (nil, nil) return means the tier has no current
	// value, which is a normal result and not an error. Each tier decides
	// freshness internally; callers never compute expiry themselves.
	Read(ctx context.Context) (*rates.Snapshot, error)

	// Write stores a snapshot as the tier's new current value and resets
	// its freshness clock. Returns ErrWriteUnsupported when CanWrite is
	// false.
	Write(ctx context.Context, snap *rates.Snapshot) error

	// CanWrite reports whether the tier accepts writes. Static per
	// instance, no side effects.
	CanWrite() bool
}

// ErrWriteUnsupported is returned by Write on read-only tiers. Callers
// should check CanWrite first instead of relying on this error for control
// flow.
var ErrWriteUnsupported = errors.New("tier does not support writes")

// CorruptError reports that a durable tier holds a snapshot it can no longer
// deserialize. It is deliberately distinct from a miss: falling through to
// the next tier would mask a data-integrity problem.
type CorruptError struct {
	Tier string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt snapshot in %s tier: %v", e.Tier, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// NewDurable creates the durable tier for the configured backend.
func NewDurable(backend, path, dsn, base string, window time.Duration) (Tier, error) {
	switch backend {
	case "file", "":
		return NewFile(path, window)
	case "sqlite":
		return NewSQLite(path, base, window)
	case "postgres", "postgresql":
		return NewPostgres(dsn, base, window)
	default:
		return nil, fmt.Errorf("unsupported durable backend: %s", backend)
	}
}
