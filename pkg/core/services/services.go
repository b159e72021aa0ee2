package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/registry"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

var (
	// ErrNoWeek is returned when there is no list for the requested meeting date
	ErrNoWeek = errors.New("no list for this meeting date")

	// ErrVolunteerNotFound is returned when a name or ID matches no volunteer
	ErrVolunteerNotFound = registry.ErrNotFound

	// ErrCancelled is returned when the coordinator declines a confirmation prompt
	ErrCancelled = errors.New("cancelled")
)

// ConfirmFunc asks the coordinator to confirm an irreversible action
type ConfirmFunc func(prompt string) bool

// Result is what a state-changing use case reports back
type Result struct {
	State   *model.State
	Outcome roster.Outcome
}

// Changed reports whether anything was saved
func (r *Result) Changed() bool {
	return r.Outcome.Changed
}

// operation computes the next state from the current one
type operation func(state *model.State) (*model.State, roster.Outcome, error)

// mutate loads the state, applies op and saves the result when it changed. A
// failed save returns the error; nothing is partially written.
func mutate(ctx context.Context, store db.StateStore, logger *zap.Logger, op operation) (*Result, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	next, outcome, err := op(state)
	if err != nil {
		return nil, err
	}

	if !outcome.Changed {
		logger.Debug("Nothing to save", zap.Strings("notices", outcome.Notices))
		return &Result{State: state, Outcome: outcome}, nil
	}

	if err := store.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	for _, notice := range outcome.Notices {
		logger.Info(notice, zap.String("week_id", outcome.WeekID))
	}
	return &Result{State: next, Outcome: outcome}, nil
}

// registryOp adapts a registry edit to an operation
func registryOp(fn func(state *model.State) (*model.State, error)) operation {
	return func(state *model.State) (*model.State, roster.Outcome, error) {
		next, err := fn(state)
		if err != nil {
			return nil, roster.Outcome{}, err
		}
		return next, roster.Outcome{Changed: true}, nil
	}
}

// findWeek returns the week for date or ErrNoWeek
func findWeek(state *model.State, date model.Date) (*model.Week, error) {
	w := state.WeekByDate(date)
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoWeek, date)
	}
	return w, nil
}

// findVolunteer resolves a name, name prefix or ID
func findVolunteer(state *model.State, query string) (*model.Volunteer, error) {
	return registry.Find(state, query)
}

// volunteerName returns the volunteer's name, or the ID for volunteers since deleted
func volunteerName(state *model.State, id string) string {
	if v := state.Volunteer(id); v != nil {
		return v.Name
	}
	return id
}
