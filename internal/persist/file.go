package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bandstand/bandstand/internal/models"
)

// FileStore persists the snapshot as a single JSON document on disk.
type FileStore struct {
	path string
	log  *zap.Logger
}

// NewFileStore returns a FileStore writing to path. The parent directory
// must exist.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the stored snapshot. A missing file is a normal first run;
// an unreadable or corrupt file is logged and treated as empty.
func (s *FileStore) Load(_ context.Context) (models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("unreadable snapshot file, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return models.EmptySnapshot(), nil
	}

	snap := models.EmptySnapshot()
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn("corrupt snapshot file, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return models.EmptySnapshot(), nil
	}
	return snap, nil
}

// Save writes the snapshot through a temp file and rename, so an
// interrupted write never truncates the previous snapshot.
func (s *FileStore) Save(_ context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %w", ErrPersistence, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: writing snapshot: %w", ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replacing snapshot: %w", ErrPersistence, err)
	}
	return nil
}

// Close is a no-op for file-backed storage.
func (s *FileStore) Close() error { return nil }

// DefaultPath returns the conventional snapshot location under dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "bandstand.json")
}
