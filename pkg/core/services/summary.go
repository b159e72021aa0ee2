package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/core/rotation"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

// Stage is the coordinator's progress on a week
type Stage string

const (
	StageBuild     Stage = "Build"
	StageInvite    Stage = "Invite"
	StageConfirm   Stage = "Confirm"
	StageFinalized Stage = "Finalized"
)

// InviteLine is one row of a week summary
type InviteLine struct {
	VolunteerID string
	Name        string
	Phone       string
	Role        model.Role
	Status      model.Status
	AutoAdded   bool
	FirstTime   bool
}

// WeekSummary is the coverage view of one week
type WeekSummary struct {
	WeekID       string
	Date         model.Date
	Finalized    bool
	Stage        Stage
	Counts       map[model.Status]int
	Confirmed    int
	MinConfirmed int
	Preferred    int
	Target       int
	StillNeeded  int
	CanFinalize  bool

	// Invites are sorted by status order, then name
	Invites []InviteLine
}

// Summarize builds the summary of w. A nil week is a list not yet built.
func Summarize(state *model.State, w *model.Week) WeekSummary {
	settings := state.Settings
	s := WeekSummary{
		Stage:        StageBuild,
		Counts:       make(map[model.Status]int, len(model.Statuses)),
		MinConfirmed: settings.MinConfirmed,
		Preferred:    settings.PreferredConfirmed,
		Target:       roster.TargetCount(settings),
		StillNeeded:  settings.MinConfirmed,
	}
	if w == nil {
		return s
	}

	s.WeekID = w.ID
	s.Date = w.Date
	s.Finalized = w.Finalized
	for _, inv := range w.Invites {
		s.Counts[inv.Status]++

		line := InviteLine{
			VolunteerID: inv.VolunteerID,
			Name:        volunteerName(state, inv.VolunteerID),
			Status:      inv.Status,
			AutoAdded:   inv.AutoAdded,
		}
		if v := state.Volunteer(inv.VolunteerID); v != nil {
			line.Phone = v.Phone
			line.Role = v.Role()
			line.FirstTime = v.FirstTime
		}
		s.Invites = append(s.Invites, line)
	}
	slices.SortStableFunc(s.Invites, func(a, b InviteLine) int {
		if oa, ob := a.Status.Order(), b.Status.Order(); oa != ob {
			return oa - ob
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	s.Confirmed = s.Counts[model.StatusConfirmed]
	s.StillNeeded = roster.StillNeeded(w, settings.MinConfirmed)
	s.CanFinalize = roster.CanFinalize(w, settings.MinConfirmed)

	switch {
	case w.Finalized:
		s.Stage = StageFinalized
	case s.CanFinalize:
		s.Stage = StageConfirm
	default:
		s.Stage = StageInvite
	}
	return s
}

// GetWeekSummary summarises the list for date. A date with no list yet gives a
// Build-stage summary.
func GetWeekSummary(ctx context.Context, store db.StateStore, logger *zap.Logger, date model.Date) (*WeekSummary, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	summary := Summarize(state, state.WeekByDate(date))
	summary.Date = date

	logger.Debug("Summarised week",
		zap.String("date", date.String()),
		zap.String("stage", string(summary.Stage)),
		zap.Int("confirmed", summary.Confirmed))
	return &summary, nil
}

// ListWeeks summarises every stored week, newest first
func ListWeeks(ctx context.Context, store db.StateStore, logger *zap.Logger) ([]WeekSummary, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	summaries := make([]WeekSummary, 0, len(state.Weeks))
	for i := range state.Weeks {
		summaries = append(summaries, Summarize(state, &state.Weeks[i]))
	}
	slices.SortStableFunc(summaries, func(a, b WeekSummary) int {
		return strings.Compare(string(b.Date), string(a.Date))
	})

	logger.Debug("Listed weeks", zap.Int("count", len(summaries)))
	return summaries, nil
}

// Suggestion is a ranked candidate for the current list with anything the
// coordinator should know before inviting them
type Suggestion struct {
	rotation.Candidate
	Notes []string
}

// SuggestNext ranks the active volunteers not already on the list for date.
// limit <= 0 returns everyone.
func SuggestNext(ctx context.Context, store db.StateStore, policy rotation.Policy, logger *zap.Logger, date model.Date, limit int) ([]Suggestion, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	w, err := findWeek(state, date)
	if err != nil {
		return nil, err
	}

	exclude := make(map[string]bool, len(w.Invites))
	for _, inv := range w.Invites {
		exclude[inv.VolunteerID] = true
	}

	ranked := policy.Rank(state.Volunteers, date, rotation.RankOptions{ExcludeIDs: exclude, OnlyActive: true})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	suggestions := make([]Suggestion, 0, len(ranked))
	for _, c := range ranked {
		suggestions = append(suggestions, Suggestion{
			Candidate: c,
			Notes:     policy.SafetyNotes(c.Volunteer, date),
		})
	}

	logger.Debug("Suggested next up", zap.String("week_id", w.ID), zap.Int("count", len(suggestions)))
	return suggestions, nil
}
