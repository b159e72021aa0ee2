package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// ExportBackup writes the whole state to dir as a dated backup file and returns its path
func ExportBackup(ctx context.Context, store db.StateStore, logger *zap.Logger, dir string, today model.Date) (string, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load state: %w", err)
	}

	data, err := db.Export(state)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, db.BackupFileName(today))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	logger.Info("Exported backup",
		zap.String("path", path),
		zap.Int("volunteers", len(state.Volunteers)),
		zap.Int("weeks", len(state.Weeks)))
	return path, nil
}

// ImportBackup replaces the whole state with the backup at path after the
// coordinator confirms. A backup that fails validation changes nothing.
func ImportBackup(ctx context.Context, store db.StateStore, logger *zap.Logger, path string, confirm ConfirmFunc) (*model.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	result, err := mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		imported, err := db.Import(data, state)
		if err != nil {
			return nil, roster.Outcome{}, err
		}
		prompt := fmt.Sprintf("Replace %d volunteers and %d weeks with %d volunteers and %d weeks from %s?",
			len(state.Volunteers), len(state.Weeks), len(imported.Volunteers), len(imported.Weeks), filepath.Base(path))
		if !confirm(prompt) {
			return nil, roster.Outcome{}, ErrCancelled
		}
		return imported, roster.Outcome{Changed: true}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Imported backup", zap.String("path", path))
	return result.State, nil
}
