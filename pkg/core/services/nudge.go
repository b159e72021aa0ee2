package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/schedule"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// Nudge is a reminder to finalize the list
type Nudge struct {
	Date        model.Date
	Confirmed   int
	StillNeeded int
}

func (n Nudge) String() string {
	if n.StillNeeded > 0 {
		return fmt.Sprintf("Reminder: finalize the list for %s (%d confirmed, %d still needed)", n.Date, n.Confirmed, n.StillNeeded)
	}
	return fmt.Sprintf("Reminder: finalize the list for %s (%d confirmed)", n.Date, n.Confirmed)
}

// Nudger decides when to remind the coordinator to finalize. It nudges at most
// once per hour of the finalize window and never changes the state.
type Nudger struct {
	Store    db.StateStore
	Schedule *schedule.Schedule
	Logger   *zap.Logger

	lastHour time.Time
}

// Check returns a nudge when now is inside the finalize window, the meeting's
// list exists and is not finalized, and this hour has not been nudged yet
func (n *Nudger) Check(ctx context.Context, now time.Time) (*Nudge, error) {
	if !n.Schedule.InFinalizeWindow(now) {
		return nil, nil
	}

	local := now.In(n.Schedule.Location())
	hour := local.Truncate(time.Hour)
	if hour.Equal(n.lastHour) {
		return nil, nil
	}

	state, err := n.Store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	date := model.DateOf(local)
	w := state.WeekByDate(date)
	if w == nil || w.Finalized {
		return nil, nil
	}

	n.lastHour = hour
	summary := Summarize(state, w)
	n.Logger.Info("Finalize nudge", zap.String("week_id", w.ID), zap.Int("confirmed", summary.Confirmed))
	return &Nudge{Date: date, Confirmed: summary.Confirmed, StillNeeded: summary.StillNeeded}, nil
}
