package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// EnsureWeek creates the list for the meeting on date if there is none yet.
// An existing list is left as it is.
func EnsureWeek(ctx context.Context, store db.StateStore, engine *roster.Engine, logger *zap.Logger, date model.Date) (*Result, error) {
	logger.Info("Ensuring list for meeting", zap.String("date", date.String()))

	return mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		next, outcome := engine.CreateWeekIfMissing(state, date)
		if outcome.Changed {
			w := next.WeekByDate(date)
			logger.Info("Built new list",
				zap.String("week_id", w.ID),
				zap.Int("invites", len(w.Invites)))
		}
		return next, outcome, nil
	})
}

// AddToWeek puts a volunteer on the list by hand
func AddToWeek(ctx context.Context, store db.StateStore, engine *roster.Engine, logger *zap.Logger, date model.Date, query string) (*Result, error) {
	return mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		w, err := findWeek(state, date)
		if err != nil {
			return nil, roster.Outcome{}, err
		}
		v, err := findVolunteer(state, query)
		if err != nil {
			return nil, roster.Outcome{}, err
		}

		logger.Info("Adding volunteer to list",
			zap.String("week_id", w.ID),
			zap.String("volunteer_id", v.ID))

		next, outcome := engine.AddVolunteer(state, w.ID, v.ID)
		if !outcome.Changed && len(outcome.Notices) == 0 {
			outcome.Notices = append(outcome.Notices, fmt.Sprintf("%s is already on the list", v.Name))
		}
		return next, outcome, nil
	})
}

// SetStatus moves an invitee to a new status, with any backfill or trim it causes
func SetStatus(ctx context.Context, store db.StateStore, engine *roster.Engine, logger *zap.Logger, date model.Date, query string, status model.Status) (*Result, error) {
	return mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		w, err := findWeek(state, date)
		if err != nil {
			return nil, roster.Outcome{}, err
		}
		v, err := findVolunteer(state, query)
		if err != nil {
			return nil, roster.Outcome{}, err
		}
		if !w.HasVolunteer(v.ID) {
			return nil, roster.Outcome{}, fmt.Errorf("%s is not on the list for %s", v.Name, date)
		}

		logger.Info("Changing invite status",
			zap.String("week_id", w.ID),
			zap.String("volunteer_id", v.ID),
			zap.String("status", string(status)))

		next, outcome := engine.TransitionStatus(state, w.ID, v.ID, status)
		logAdjustments(logger, next, outcome)
		return next, outcome, nil
	})
}

// RemoveFromWeek takes a volunteer off the list, undoing the history the invite wrote
func RemoveFromWeek(ctx context.Context, store db.StateStore, engine *roster.Engine, logger *zap.Logger, date model.Date, query string) (*Result, error) {
	return mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		w, err := findWeek(state, date)
		if err != nil {
			return nil, roster.Outcome{}, err
		}
		v, err := findVolunteer(state, query)
		if err != nil {
			return nil, roster.Outcome{}, err
		}

		logger.Info("Removing volunteer from list",
			zap.String("week_id", w.ID),
			zap.String("volunteer_id", v.ID))

		next, outcome := engine.RemoveFromWeek(state, w.ID, v.ID)
		return next, outcome, nil
	})
}

// FinalizeWeek locks the list once enough volunteers have confirmed
func FinalizeWeek(ctx context.Context, store db.StateStore, engine *roster.Engine, logger *zap.Logger, date model.Date) (*Result, error) {
	return mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		w, err := findWeek(state, date)
		if err != nil {
			return nil, roster.Outcome{}, err
		}

		logger.Info("Finalizing list", zap.String("week_id", w.ID))

		next, outcome := engine.Finalize(state, w.ID)
		if !outcome.Changed && w.Finalized {
			outcome.Notices = append(outcome.Notices, "This list is already finalized")
		}
		return next, outcome, nil
	})
}

// DeleteWeek removes the list for date after the coordinator confirms. This
// cannot be undone.
func DeleteWeek(ctx context.Context, store db.StateStore, engine *roster.Engine, logger *zap.Logger, date model.Date, confirm ConfirmFunc) (*Result, error) {
	return mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		w, err := findWeek(state, date)
		if err != nil {
			return nil, roster.Outcome{}, err
		}

		if !confirm(fmt.Sprintf("Delete the list for %s? This cannot be undone.", date)) {
			return nil, roster.Outcome{}, ErrCancelled
		}

		logger.Info("Deleting list", zap.String("week_id", w.ID), zap.Int("invites", len(w.Invites)))

		next, outcome := engine.DeleteWeek(state, w.ID)
		return next, outcome, nil
	})
}

// RecordDelivery notes that the coordinator sent a message of the given kind
func RecordDelivery(ctx context.Context, store db.StateStore, engine *roster.Engine, logger *zap.Logger, date model.Date, query string, kind model.MessageKind) (*Result, error) {
	return mutate(ctx, store, logger, func(state *model.State) (*model.State, roster.Outcome, error) {
		w, err := findWeek(state, date)
		if err != nil {
			return nil, roster.Outcome{}, err
		}
		v, err := findVolunteer(state, query)
		if err != nil {
			return nil, roster.Outcome{}, err
		}
		if !w.HasVolunteer(v.ID) {
			return nil, roster.Outcome{}, fmt.Errorf("%s is not on the list for %s", v.Name, date)
		}

		logger.Info("Recording message sent",
			zap.String("week_id", w.ID),
			zap.String("volunteer_id", v.ID),
			zap.String("kind", string(kind)))

		next, outcome := engine.RecordDelivery(state, w.ID, v.ID, kind)
		logAdjustments(logger, next, outcome)
		return next, outcome, nil
	})
}

func logAdjustments(logger *zap.Logger, state *model.State, outcome roster.Outcome) {
	for _, id := range outcome.Added {
		logger.Debug("Backfilled", zap.String("week_id", outcome.WeekID), zap.String("volunteer_id", id),
			zap.String("name", volunteerName(state, id)))
	}
	for _, id := range outcome.Removed {
		logger.Debug("Trimmed", zap.String("week_id", outcome.WeekID), zap.String("volunteer_id", id),
			zap.String("name", volunteerName(state, id)))
	}
}
