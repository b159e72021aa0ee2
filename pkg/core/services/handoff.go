package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// EmailClient sends plain-text email
type EmailClient interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SendHandoff emails the list for date, so the next coordinator (or the
// meeting chair) has it without opening the app
func SendHandoff(ctx context.Context, store db.StateStore, client EmailClient, logger *zap.Logger, date model.Date, to string) error {
	state, err := store.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	w, err := findWeek(state, date)
	if err != nil {
		return err
	}

	summary := Summarize(state, w)
	subject := fmt.Sprintf("%s list for %s", state.Settings.MeetingName, date)
	body := HandoffBody(state.Settings, summary)

	logger.Info("Sending handoff email",
		zap.String("week_id", w.ID),
		zap.String("to", to),
		zap.String("stage", string(summary.Stage)))

	if err := client.SendEmail(ctx, to, subject, body); err != nil {
		return fmt.Errorf("failed to send handoff email: %w", err)
	}
	return nil
}

// HandoffBody renders the week as plain text, grouped by status
func HandoffBody(settings model.Settings, s WeekSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s, %s %s (arrive %s)\n", settings.MeetingName, settings.MeetingDay, s.Date, settings.MeetingArriveTime)
	fmt.Fprintf(&b, "Status: %s\n", s.Stage)
	fmt.Fprintf(&b, "Confirmed: %d (minimum %d, preferred %d)\n", s.Confirmed, s.MinConfirmed, s.Preferred)
	if s.StillNeeded > 0 {
		fmt.Fprintf(&b, "Still needed: %d\n", s.StillNeeded)
	}

	var current model.Status
	for _, line := range s.Invites {
		if line.Status != current {
			current = line.Status
			fmt.Fprintf(&b, "\n%s (%d)\n", current, s.Counts[current])
		}
		fmt.Fprintf(&b, "  - %s", line.Name)
		if line.Role != "" && line.Role != model.RoleVolunteer {
			fmt.Fprintf(&b, " [%s]", line.Role)
		}
		if line.Phone != "" {
			fmt.Fprintf(&b, "  %s", line.Phone)
		}
		b.WriteString("\n")
	}

	if settings.Mission != "" {
		fmt.Fprintf(&b, "\n%s\n", settings.Mission)
	}
	return b.String()
}
