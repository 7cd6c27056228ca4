// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/pubmed-sync/pkg/types"
)

// Store reads and replaces the persisted snapshot. Implementations must
// make Upload a full replacement: a reader observing the destination
// mid-write sees either the old complete snapshot or the new one, never a
// truncated file. The pipeline is the only writer; overlapping runs are
// excluded by the scheduler, not by the store.
type Store interface {
	// Download returns the current snapshot content. ok is false when no
	// snapshot exists yet (first run); that is not an error.
	Download(ctx context.Context) (data []byte, ok bool, err error)

	// Upload replaces the snapshot with data.
	Upload(ctx context.Context, data []byte) error
}

// NewStore builds the store selected by cfg.Backend.
func NewStore(cfg types.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case types.BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file storage requires a path")
		}
		return &FileStore{Path: cfg.Path}, nil
	case types.BackendAzure:
		return NewAzureStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q: use azure or file", cfg.Backend)
	}
}

// FileStore keeps the snapshot in a local file. Used for development and
// as the test double for the blob store.
type FileStore struct {
	Path string
}

// Download reads the snapshot file. A missing file means no snapshot yet.
func (s *FileStore) Download(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot %s: %w", s.Path, err)
	}
	return data, true, nil
}

// Upload writes to a temporary file in the destination directory and
// renames it over the snapshot, so a concurrent reader never observes a
// partial write.
func (s *FileStore) Upload(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing snapshot: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
