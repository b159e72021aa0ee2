package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/messages"
	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// draftAudience is who each kind of message goes to when no volunteer is named
var draftAudience = map[model.MessageKind]model.Status{
	model.KindInvite:   model.StatusNotInvited,
	model.KindFollowUp: model.StatusInvited,
	model.KindReminder: model.StatusConfirmed,
}

// DraftMessages drafts messages of kind for the list on date. With a query the
// draft is for that volunteer only; otherwise it is for everyone the kind is
// meant for: invites to the not-yet-invited, follow-ups to those who have not
// answered, reminders to the confirmed. Drafting never changes the state.
func DraftMessages(ctx context.Context, store db.StateStore, logger *zap.Logger, date model.Date, kind model.MessageKind, query string, ios bool) ([]messages.Draft, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	if query != "" {
		v, err := findVolunteer(state, query)
		if err != nil {
			return nil, err
		}
		draft, err := messages.New(state.Settings, kind, *v, ios)
		if err != nil {
			return nil, err
		}
		return []messages.Draft{draft}, nil
	}

	w, err := findWeek(state, date)
	if err != nil {
		return nil, err
	}

	status, ok := draftAudience[kind]
	if !ok {
		return nil, fmt.Errorf("unknown message kind %q", kind)
	}

	var drafts []messages.Draft
	for _, inv := range w.Invites {
		if inv.Status != status {
			continue
		}
		v := state.Volunteer(inv.VolunteerID)
		if v == nil {
			continue
		}
		draft, err := messages.New(state.Settings, kind, *v, ios)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	logger.Debug("Drafted messages",
		zap.String("week_id", w.ID),
		zap.String("kind", string(kind)),
		zap.Int("count", len(drafts)))
	return drafts, nil
}
