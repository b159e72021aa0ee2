package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

func TestExportImportBackup(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	source := newTestStore()

	path, err := ExportBackup(ctx, source, zap.NewNop(), dir, "2025-06-07")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gateway-to-service-backup-2025-06-07.json"), path)

	target := &mockStore{state: model.DefaultState()}
	var prompt string
	state, err := ImportBackup(ctx, target, zap.NewNop(), path, func(p string) bool {
		prompt = p
		return true
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Replace 0 volunteers and 0 weeks with 5 volunteers and 1 weeks")
	assert.Len(t, state.Volunteers, 5)
	assert.Equal(t, 1, target.saves)
	assert.Equal(t, 2, target.state.Settings.MinConfirmed)
}

func TestImportBackup_Cancelled(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	path, err := ExportBackup(ctx, newTestStore(), zap.NewNop(), dir, "2025-06-07")
	require.NoError(t, err)

	target := &mockStore{state: model.DefaultState()}
	_, err = ImportBackup(ctx, target, zap.NewNop(), path, func(string) bool { return false })
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 0, target.saves)
}

func TestImportBackup_InvalidFileChangesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1}`), 0o644))

	target := newTestStore()
	asked := false
	_, err := ImportBackup(context.Background(), target, zap.NewNop(), path, func(string) bool {
		asked = true
		return true
	})
	require.Error(t, err)
	assert.False(t, asked)
	assert.Equal(t, 0, target.saves)
}
