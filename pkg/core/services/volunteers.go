package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/registry"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// ListVolunteers returns the registry ordered by role then name
func ListVolunteers(ctx context.Context, store db.StateStore, logger *zap.Logger) ([]model.Volunteer, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	logger.Debug("Listed volunteers", zap.Int("count", len(state.Volunteers)))
	return registry.Sorted(state.Volunteers), nil
}

// AddVolunteer creates a volunteer from the profile
func AddVolunteer(ctx context.Context, store db.StateStore, logger *zap.Logger, p registry.Profile, defaultCadence model.Cadence, newID func() string) (*model.Volunteer, error) {
	var added model.Volunteer
	_, err := mutate(ctx, store, logger, registryOp(func(state *model.State) (*model.State, error) {
		next, v, err := registry.Add(state, p, defaultCadence, newID)
		added = v
		return next, err
	}))
	if err != nil {
		return nil, err
	}

	logger.Info("Added volunteer", zap.String("volunteer_id", added.ID), zap.String("name", added.Name))
	return &added, nil
}

// EditVolunteer replaces the profile of the volunteer matching query
func EditVolunteer(ctx context.Context, store db.StateStore, logger *zap.Logger, query string, edit func(p *registry.Profile), defaultCadence model.Cadence) (*model.Volunteer, error) {
	return updateVolunteer(ctx, store, logger, query, "Edited volunteer", func(state *model.State, v *model.Volunteer) (*model.State, error) {
		p := registry.Profile{
			Name:      v.Name,
			Phone:     v.Phone,
			Role:      v.CoreRole,
			Cadence:   v.InviteCadence,
			FirstTime: v.FirstTime,
			Active:    v.Active,
		}
		edit(&p)
		return registry.Edit(state, v.ID, p, defaultCadence)
	})
}

// ToggleActive flips whether the volunteer can be invited
func ToggleActive(ctx context.Context, store db.StateStore, logger *zap.Logger, query string) (*model.Volunteer, error) {
	return updateVolunteer(ctx, store, logger, query, "Toggled active", func(state *model.State, v *model.Volunteer) (*model.State, error) {
		return registry.ToggleActive(state, v.ID)
	})
}

// ToggleFirstTime flips the first-timer flag
func ToggleFirstTime(ctx context.Context, store db.StateStore, logger *zap.Logger, query string) (*model.Volunteer, error) {
	return updateVolunteer(ctx, store, logger, query, "Toggled first time", func(state *model.State, v *model.Volunteer) (*model.State, error) {
		return registry.ToggleFirstTime(state, v.ID)
	})
}

func SetRole(ctx context.Context, store db.StateStore, logger *zap.Logger, query string, role model.Role) (*model.Volunteer, error) {
	return updateVolunteer(ctx, store, logger, query, "Set role", func(state *model.State, v *model.Volunteer) (*model.State, error) {
		return registry.SetRole(state, v.ID, role)
	})
}

func SetCadence(ctx context.Context, store db.StateStore, logger *zap.Logger, query string, cadence string) (*model.Volunteer, error) {
	return updateVolunteer(ctx, store, logger, query, "Set cadence", func(state *model.State, v *model.Volunteer) (*model.State, error) {
		return registry.SetCadence(state, v.ID, cadence)
	})
}

// DeleteVolunteer removes a volunteer after the coordinator confirms. Past
// invites are kept.
func DeleteVolunteer(ctx context.Context, store db.StateStore, logger *zap.Logger, query string, confirm ConfirmFunc) error {
	_, err := mutate(ctx, store, logger, registryOp(func(state *model.State) (*model.State, error) {
		v, err := findVolunteer(state, query)
		if err != nil {
			return nil, err
		}
		if !confirm(fmt.Sprintf("Delete %s from the volunteer list?", v.Name)) {
			return nil, ErrCancelled
		}
		logger.Info("Deleting volunteer", zap.String("volunteer_id", v.ID), zap.String("name", v.Name))
		return registry.Delete(state, v.ID)
	}))
	return err
}

// updateVolunteer resolves query, applies fn and returns the updated volunteer
func updateVolunteer(ctx context.Context, store db.StateStore, logger *zap.Logger, query, action string,
	fn func(state *model.State, v *model.Volunteer) (*model.State, error)) (*model.Volunteer, error) {
	var id string
	result, err := mutate(ctx, store, logger, registryOp(func(state *model.State) (*model.State, error) {
		v, err := findVolunteer(state, query)
		if err != nil {
			return nil, err
		}
		id = v.ID
		return fn(state, v)
	}))
	if err != nil {
		return nil, err
	}

	v := result.State.Volunteer(id)
	logger.Info(action, zap.String("volunteer_id", id), zap.String("name", v.Name))
	return v, nil
}
