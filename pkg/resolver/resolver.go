// Package resolver implements the read-through chain at the heart of
// ratecached: tiers are probed in priority order, the first fresh snapshot
// wins, and every faster tier that missed is back-filled so the next read
// hits earlier in the chain.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/afterdarksys/ratecached/pkg/rates"
	"github.com/afterdarksys/ratecached/pkg/tier"
)

// Resolver holds an ordered, immutable chain of tiers. Index 0 is the
// fastest and cheapest tier; the last is the authoritative source. The chain
// is fixed at construction, resolution only mutates the data tiers hold.
type Resolver struct {
	tiers  []tier.Tier
	logger *slog.Logger
}

// New creates a resolver over the given tiers, fastest first.
func New(logger *slog.Logger, tiers ...tier.Tier) *Resolver {
	return &Resolver{
		tiers:  tiers,
		logger: logger,
	}
}

// Resolve probes the chain in order and returns the first fresh snapshot,
// back-filling every preceding writable tier before returning. A (nil, nil)
// return means the chain is exhausted: a normal outcome the caller decides
// how to treat. Read errors (notably corrupt durable data) halt resolution
// and surface, since falling through would mask them.
func (r *Resolver) Resolve(ctx context.Context) (*rates.Snapshot, error) {
	for i, t := range r.tiers {
		snap, err := t.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading %s tier: %w", t.Name(), err)
		}
		if snap == nil {
			r.logger.Debug("tier miss", "tier", t.Name())
			continue
		}

		r.logger.Debug("tier hit", "tier", t.Name())
		r.backfill(ctx, i, snap)
		return snap, nil
	}

	return nil, nil
}

// Refresh bypasses the cache tiers, reads the last (authoritative) tier
// directly, and back-fills every writable tier with the result.
func (r *Resolver) Refresh(ctx context.Context) (*rates.Snapshot, error) {
	if len(r.tiers) == 0 {
		return nil, nil
	}

	last := r.tiers[len(r.tiers)-1]
	snap, err := last.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s tier: %w", last.Name(), err)
	}
	if snap == nil {
		return nil, nil
	}

	r.backfill(ctx, len(r.tiers)-1, snap)
	return snap, nil
}

// backfill writes a resolved snapshot into every writable tier before the
// hit index. Back-fill is best-effort: a failed write is logged and never
// prevents the already-found snapshot from being returned.
func (r *Resolver) backfill(ctx context.Context, hit int, snap *rates.Snapshot) {
	for _, t := range r.tiers[:hit] {
		if !t.CanWrite() {
			continue
		}
		if err := t.Write(ctx, snap); err != nil {
			r.logger.Warn("back-fill write failed",
				"tier", t.Name(),
				"error", err)
		}
	}
}

// Tiers returns the chain in probe order, for status reporting.
func (r *Resolver) Tiers() []tier.Tier {
	out := make([]tier.Tier, len(r.tiers))
	copy(out, r.tiers)
	return out
}

// Close releases any tiers holding resources, such as database handles.
func (r *Resolver) Close() error {
	var firstErr error
	for _, t := range r.tiers {
		if closer, ok := t.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
