package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// GetSettings returns the stored meeting settings
func GetSettings(ctx context.Context, store db.StateStore) (*model.Settings, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return &state.Settings, nil
}

// SetCapacity changes the staffing targets. Existing lists are not adjusted
// until their next change.
func SetCapacity(ctx context.Context, store db.StateStore, logger *zap.Logger, minConfirmed, preferred, maxVolunteers int) error {
	if minConfirmed < 0 || minConfirmed > preferred || preferred > maxVolunteers {
		return fmt.Errorf("capacity must satisfy 0 <= min (%d) <= preferred (%d) <= max (%d)", minConfirmed, preferred, maxVolunteers)
	}

	_, err := mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		next := state.Clone()
		next.Settings.MinConfirmed = minConfirmed
		next.Settings.PreferredConfirmed = preferred
		next.Settings.MaxVolunteers = maxVolunteers
		return next, roster.Outcome{Changed: true}, nil
	})
	if err != nil {
		return err
	}

	logger.Info("Updated capacity",
		zap.Int("min_confirmed", minConfirmed),
		zap.Int("preferred_confirmed", preferred),
		zap.Int("max_volunteers", maxVolunteers))
	return nil
}

// messageFields maps the template names used on the command line to the settings fields
func messageFields(m *model.Messages) map[string]*string {
	return map[string]*string{
		"invite":            &m.Invite,
		"followUp":          &m.FollowUp,
		"reminder":          &m.Reminder,
		"firstTime":         &m.FirstTime,
		"inviteFirstTime":   &m.InviteFirstTime,
		"followUpFirstTime": &m.FollowUpFirstTime,
		"reminderFirstTime": &m.ReminderFirstTime,
	}
}

// MessageTemplateNames lists the editable templates
var MessageTemplateNames = []string{
	"invite", "followUp", "reminder", "firstTime", "inviteFirstTime", "followUpFirstTime", "reminderFirstTime",
}

// SetMessageTemplate replaces one message template
func SetMessageTemplate(ctx context.Context, store db.StateStore, logger *zap.Logger, name, text string) error {
	_, err := mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		next := state.Clone()
		field, ok := messageFields(&next.Settings.Messages)[name]
		if !ok {
			return nil, roster.Outcome{}, fmt.Errorf("unknown message template %q", name)
		}
		*field = text
		return next, roster.Outcome{Changed: true}, nil
	})
	if err != nil {
		return err
	}

	logger.Info("Updated message template", zap.String("template", name))
	return nil
}
