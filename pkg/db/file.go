package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// FileStore keeps the state in a single JSON file
type FileStore struct {
	path     string
	defaults func() *model.State
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewFileStore creates a store at path. defaults provides the state used on a
// cold start and when the file cannot be read back.
func NewFileStore(path string, defaults func() *model.State, logger *zap.Logger) *FileStore {
	if defaults == nil {
		defaults = model.DefaultState
	}
	return &FileStore{path: path, defaults: defaults, logger: logger}
}

// Path is the file the state is stored in
func (s *FileStore) Path() string {
	return s.path
}

// LoadState reads the state file. A missing file is a cold start; a corrupt or
// incompatible file is logged and replaced by the defaults.
func (s *FileStore) LoadState(ctx context.Context) (*model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("No saved state found, starting fresh", zap.String("path", s.path))
		return s.defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	state, err := DecodeState(data, s.defaults())
	if err != nil {
		s.logger.Warn("Saved state could not be loaded, starting fresh",
			zap.String("path", s.path),
			zap.Error(err))
		return s.defaults(), nil
	}

	s.logger.Debug("Loaded state",
		zap.String("path", s.path),
		zap.Int("volunteers", len(state.Volunteers)),
		zap.Int("weeks", len(state.Weeks)))
	return state, nil
}

// SaveState writes the state to a temporary file and renames it into place, so
// a failed write never leaves a half-written state file
func (s *FileStore) SaveState(ctx context.Context, state *model.State) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	s.logger.Debug("Saved state", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}

// Close is a no-op; the file is not held open between calls
func (s *FileStore) Close() {}
