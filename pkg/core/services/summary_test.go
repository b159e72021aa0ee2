package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/rotation"
)

func TestSummarize_Stages(t *testing.T) {
	tests := []struct {
		name          string
		edit          func(w *model.Week)
		expectedStage Stage
		stillNeeded   int
		canFinalize   bool
	}{
		{"under minimum", func(w *model.Week) {}, StageInvite, 1, false},
		{"enough confirmed", func(w *model.Week) { w.Invites[1].Status = model.StatusConfirmed }, StageConfirm, 0, true},
		{"finalized", func(w *model.Week) {
			w.Invites[1].Status = model.StatusConfirmed
			w.Finalized = true
		}, StageFinalized, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := testState()
			tt.edit(&state.Weeks[0])

			s := Summarize(state, &state.Weeks[0])
			assert.Equal(t, tt.expectedStage, s.Stage)
			assert.Equal(t, tt.stillNeeded, s.StillNeeded)
			assert.Equal(t, tt.canFinalize, s.CanFinalize)
			assert.Equal(t, 3, s.Target)
		})
	}
}

func TestSummarize_NoWeek(t *testing.T) {
	s := Summarize(testState(), nil)
	assert.Equal(t, StageBuild, s.Stage)
	assert.Equal(t, 2, s.StillNeeded)
	assert.False(t, s.CanFinalize)
	assert.Empty(t, s.Invites)
}

func TestSummarize_InviteLines(t *testing.T) {
	state := testState()
	s := Summarize(state, &state.Weeks[0])

	require.Len(t, s.Invites, 3)
	assert.Equal(t, "Carl", s.Invites[0].Name)
	assert.Equal(t, "Bob", s.Invites[1].Name)
	assert.Equal(t, "Alice", s.Invites[2].Name)
	assert.Equal(t, model.RoleChairperson, s.Invites[2].Role)
	assert.True(t, s.Invites[0].FirstTime)
	assert.Equal(t, 1, s.Counts[model.StatusConfirmed])
	assert.Equal(t, 1, s.Counts[model.StatusInvited])
	assert.Equal(t, 1, s.Counts[model.StatusNotInvited])
}

func TestGetWeekSummary(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	s, err := GetWeekSummary(ctx, store, zap.NewNop(), meetingDate)
	require.NoError(t, err)
	assert.Equal(t, "w1", s.WeekID)
	assert.Equal(t, StageInvite, s.Stage)

	s, err = GetWeekSummary(ctx, store, zap.NewNop(), "2025-06-13")
	require.NoError(t, err)
	assert.Equal(t, StageBuild, s.Stage)
	assert.Equal(t, model.Date("2025-06-13"), s.Date)
}

func TestListWeeks_NewestFirst(t *testing.T) {
	store := newTestStore()
	store.state.Weeks = append(store.state.Weeks,
		model.Week{ID: "w0", Date: "2025-05-30"},
		model.Week{ID: "w2", Date: "2025-06-13"},
	)

	summaries, err := ListWeeks(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "w2", summaries[0].WeekID)
	assert.Equal(t, "w1", summaries[1].WeekID)
	assert.Equal(t, "w0", summaries[2].WeekID)
}

func TestSuggestNext(t *testing.T) {
	store := newTestStore()
	store.state.Volunteers = append(store.state.Volunteers, model.Volunteer{
		ID: "finn", Name: "Finn", Phone: "555-0106", InviteCadence: model.CadenceMonthly, Active: true,
		LastDeclinedDate: meetingDate.AddDays(-7),
	})

	suggestions, err := SuggestNext(context.Background(), store, rotation.DefaultPolicy(), zap.NewNop(), meetingDate, 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.Volunteer.ID)
	}
	assert.ElementsMatch(t, []string{"dave", "finn"}, ids)
	assert.Equal(t, "dave", suggestions[0].Volunteer.ID, "never-touched volunteers come first")
	assert.Empty(t, suggestions[0].Notes)
	assert.Contains(t, suggestions[1].Notes, "Recently declined (2025-05-30)")

	limited, err := SuggestNext(context.Background(), store, rotation.DefaultPolicy(), zap.NewNop(), meetingDate, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = SuggestNext(context.Background(), store, rotation.DefaultPolicy(), zap.NewNop(), "2025-07-04", 0)
	assert.ErrorIs(t, err, ErrNoWeek)
}
