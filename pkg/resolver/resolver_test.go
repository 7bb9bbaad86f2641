package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterdarksys/ratecached/pkg/rates"
	"github.com/afterdarksys/ratecached/pkg/tier"
)

// fakeTier is a scripted tier that records read and write calls.
type fakeTier struct {
	name       string
	snap       *rates.Snapshot
	readErr    error
	writeErr   error
	writable   bool
	readCalls  int
	writeCalls int
	written    *rates.Snapshot
}

func (f *fakeTier) Name() string { return f.name }

func (f *fakeTier) Read(ctx context.Context) (*rates.Snapshot, error) {
	f.readCalls++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.snap, nil
}

func (f *fakeTier) Write(ctx context.Context, snap *rates.Snapshot) error {
	f.writeCalls++
	if !f.writable {
		return tier.ErrWriteUnsupported
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = snap
	return nil
}

func (f *fakeTier) CanWrite() bool { return f.writable }

func testSnapshot() *rates.Snapshot {
	return &rates.Snapshot{
		Base:      "USD",
		Rates:     map[string]float64{"USD": 1, "EUR": 0.85},
		FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveShortCircuit(t *testing.T) {
	snap := testSnapshot()
	a := &fakeTier{name: "a", snap: snap, writable: true}
	b := &fakeTier{name: "b", writable: true}
	c := &fakeTier{name: "c", writable: false}

	r := New(discardLogger(), a, b, c)
	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, snap, got)

	assert.Equal(t, 1, a.readCalls)
	assert.Equal(t, 0, b.readCalls, "tiers after the hit must not be consulted")
	assert.Equal(t, 0, c.readCalls)
	assert.Equal(t, 0, a.writeCalls, "a hit at index 0 performs no back-fill")
	assert.Equal(t, 0, b.writeCalls)
}

func TestResolveBackfillOnMiss(t *testing.T) {
	snap := testSnapshot()
	a := &fakeTier{name: "a", writable: true}
	b := &fakeTier{name: "b", writable: true}
	c := &fakeTier{name: "c", snap: snap, writable: true}

	r := New(discardLogger(), a, b, c)
	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, snap, got)

	assert.Equal(t, 1, a.writeCalls)
	assert.Equal(t, snap, a.written)
	assert.Equal(t, 1, b.writeCalls)
	assert.Equal(t, snap, b.written)
	assert.Equal(t, 0, c.writeCalls, "the hit tier is never back-filled into itself")
}

func TestResolveSkipsNonWritableTier(t *testing.T) {
	snap := testSnapshot()
	a := &fakeTier{name: "a", writable: true}
	b := &fakeTier{name: "b", writable: false}
	c := &fakeTier{name: "c", snap: snap, writable: false}

	r := New(discardLogger(), a, b, c)
	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, snap, got)

	assert.Equal(t, 1, a.writeCalls)
	assert.Equal(t, 0, b.writeCalls, "non-writable tiers are never back-fill targets")
}

func TestResolveAllAbsent(t *testing.T) {
	a := &fakeTier{name: "a", writable: true}
	b := &fakeTier{name: "b", writable: true}
	c := &fakeTier{name: "c", writable: false}

	r := New(discardLogger(), a, b, c)
	got, err := r.Resolve(context.Background())
	require.NoError(t, err, "an exhausted chain is a normal outcome, not a failure")
	assert.Nil(t, got)

	assert.Equal(t, 1, a.readCalls)
	assert.Equal(t, 1, b.readCalls)
	assert.Equal(t, 1, c.readCalls)
	assert.Equal(t, 0, a.writeCalls)
	assert.Equal(t, 0, b.writeCalls)
}

func TestResolveCorruptDataSurfaces(t *testing.T) {
	corrupt := &tier.CorruptError{Tier: "b", Err: errors.New("unexpected end of JSON input")}
	a := &fakeTier{name: "a", writable: true}
	b := &fakeTier{name: "b", readErr: corrupt, writable: true}
	c := &fakeTier{name: "c", snap: testSnapshot(), writable: false}

	r := New(discardLogger(), a, b, c)
	got, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Nil(t, got)

	var ce *tier.CorruptError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "b", ce.Tier)
	assert.Equal(t, 0, c.readCalls, "corruption must not fall through to the next tier")
}

func TestResolveBackfillFailureNonFatal(t *testing.T) {
	snap := testSnapshot()
	a := &fakeTier{name: "a", writable: true, writeErr: errors.New("disk full")}
	b := &fakeTier{name: "b", snap: snap, writable: true}

	r := New(discardLogger(), a, b)
	got, err := r.Resolve(context.Background())
	require.NoError(t, err, "a failed back-fill write must not abort resolution")
	assert.Equal(t, snap, got)
	assert.Equal(t, 1, a.writeCalls)
}

func TestResolveEmptyChain(t *testing.T) {
	r := New(discardLogger())
	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRefreshBackfillsAllWritable(t *testing.T) {
	snap := testSnapshot()
	a := &fakeTier{name: "a", snap: testSnapshot(), writable: true}
	b := &fakeTier{name: "b", writable: false}
	c := &fakeTier{name: "c", snap: snap, writable: false}

	r := New(discardLogger(), a, b, c)
	got, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, snap, got)

	assert.Equal(t, 0, a.readCalls, "refresh bypasses cache tiers")
	assert.Equal(t, 1, c.readCalls)
	assert.Equal(t, 1, a.writeCalls)
	assert.Equal(t, 0, b.writeCalls)
}

func TestRefreshEmptyChain(t *testing.T) {
	r := New(discardLogger())
	got, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}
