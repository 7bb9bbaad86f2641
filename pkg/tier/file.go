package tier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/afterdarksys/ratecached/pkg/rates"
)

// FileTier persists the snapshot as JSON at a fixed path. Freshness is the
// file's modification time compared against the window, so the copy survives
// process restarts.
type FileTier struct {
	path   string
	window time.Duration
	now    func() time.Time
}

// NewFile creates a file-backed tier. An empty path defaults to
// ~/.ratecached/rates.json.
func NewFile(path string, window time.Duration) (*FileTier, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".ratecached", "rates.json")
	}

	return &FileTier{
		path:   path,
		window: window,
		now:    time.Now,
	}, nil
}

func (f *FileTier) Name() string {
	return "file"
}

func (f *FileTier) Read(ctx context.Context) (*rates.Snapshot, error) {
	info, err := os.Stat(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}

	if f.now().Sub(info.ModTime()) >= f.window {
		return nil, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	snap, err := rates.Decode(data)
	if err != nil {
		return nil, &CorruptError{Tier: f.Name(), Err: err}
	}
	return snap, nil
}

func (f *FileTier) Write(ctx context.Context, snap *rates.Snapshot) error {
	data, err := rates.Encode(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

func (f *FileTier) CanWrite() bool {
	return true
}
