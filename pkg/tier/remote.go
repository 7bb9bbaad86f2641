package tier

import (
	"context"
	"log/slog"

	"github.com/afterdarksys/ratecached/pkg/client"
	"github.com/afterdarksys/ratecached/pkg/rates"
)

// RemoteTier fetches rates from the authoritative remote API. It is the last
// tier in the chain: always attempted on a full miss, never written to, and
// without a freshness window of its own.
type RemoteTier struct {
	client *client.Client
	base   string
	logger *slog.Logger
}

// NewRemote creates the authoritative remote tier for a base currency.
func NewRemote(c *client.Client, base string, logger *slog.Logger) *RemoteTier {
	return &RemoteTier{
		client: c,
		base:   base,
		logger: logger,
	}
}

func (r *RemoteTier) Name() string {
	return "remote"
}

// Read fetches the latest rates. Network-level failures are downgraded to
// absent so the chain can report "no value" instead of crashing, but they
// are logged rather than silently swallowed.
func (r *RemoteTier) Read(ctx context.Context) (*rates.Snapshot, error) {
	snap, err := r.client.LatestRates(ctx, r.base)
	if err != nil {
		r.logger.Warn("remote rate fetch failed",
			"tier", r.Name(),
			"base", r.base,
			"error", err)
		return nil, nil
	}
	return snap, nil
}

func (r *RemoteTier) Write(ctx context.Context, snap *rates.Snapshot) error {
	return ErrWriteUnsupported
}

func (r *RemoteTier) CanWrite() bool {
	return false
}
