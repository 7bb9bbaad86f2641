package tier

import (
	"context"
	"sync"
	"time"

	"github.com/afterdarksys/ratecached/pkg/rates"
)

// MemoryTier holds at most one snapshot in process memory. It is the fastest
// tier and always sits first in the chain.
type MemoryTier struct {
	mu        sync.RWMutex
	window    time.Duration
	now       func() time.Time
	snap      *rates.Snapshot
	writtenAt time.Time
}

// NewMemory creates an in-memory tier whose held snapshot expires window
// after the last write. A tier that was never written is always absent.
func NewMemory(window time.Duration) *MemoryTier {
	return &MemoryTier{
		window: window,
		now:    time.Now,
	}
}

func (m *MemoryTier) Name() string {
	return "memory"
}

func (m *MemoryTier) Read(ctx context.Context) (*rates.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snap == nil {
		return nil, nil
	}
	if m.now().Sub(m.writtenAt) >= m.window {
		return nil, nil
	}
	return m.snap, nil
}

func (m *MemoryTier) Write(ctx context.Context, snap *rates.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap = snap
	m.writtenAt = m.now()
	return nil
}

func (m *MemoryTier) CanWrite() bool {
	return true
}
