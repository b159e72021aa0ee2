package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/registry"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// RosterClient reads the volunteer roster from an external sheet
type RosterClient interface {
	ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]model.Volunteer, error)
}

// SyncRoster merges the external roster into the registry. Profiles are
// updated; history and lists are left alone.
func SyncRoster(ctx context.Context, store db.StateStore, client RosterClient, logger *zap.Logger,
	spreadsheetID, tab string, defaultCadence model.Cadence, newID func() string) (*registry.MergeResult, error) {
	logger.Info("Syncing roster", zap.String("spreadsheet_id", spreadsheetID), zap.String("tab", tab))

	incoming, err := client.ListVolunteers(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	logger.Debug("Read roster rows", zap.Int("count", len(incoming)))

	var merged registry.MergeResult
	_, err = mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		next, result := registry.Merge(state, incoming, defaultCadence, newID)
		merged = result
		return next, roster.Outcome{Changed: result.Added+result.Updated > 0}, nil
	})
	if err != nil {
		return nil, err
	}

	for _, reason := range merged.Skipped {
		logger.Warn("Skipped roster row", zap.String("reason", reason))
	}
	logger.Info("Roster synced",
		zap.Int("added", merged.Added),
		zap.Int("updated", merged.Updated),
		zap.Int("skipped", len(merged.Skipped)))
	return &merged, nil
}
