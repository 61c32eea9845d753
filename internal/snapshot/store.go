package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpattn/feedtrack/internal/domain"
)

// Save writes a snapshot document into dir using the canonical filename and
// returns the full path. The document is indented JSON so a human can
// inspect what was captured.
func Save(dir string, result Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := domain.MarshalSnapshot(result.Snapshot)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	path := filepath.Join(dir, result.Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// Load reads a persisted snapshot document back. Round-trips with Save: the
// loaded snapshot equals the one written. A document missing its products
// sequence fails with domain.ErrSnapshotFormat.
func Load(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := domain.UnmarshalSnapshot(data)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", filepath.Base(path), err)
	}
	return snap, nil
}
