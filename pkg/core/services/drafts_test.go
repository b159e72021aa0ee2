package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

func TestDraftMessages_Audience(t *testing.T) {
	tests := []struct {
		kind     model.MessageKind
		expected string
	}{
		{model.KindInvite, "carl"},
		{model.KindFollowUp, "bob"},
		{model.KindReminder, "alice"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			store := newTestStore()
			drafts, err := DraftMessages(context.Background(), store, zap.NewNop(), meetingDate, tt.kind, "", false)
			require.NoError(t, err)
			require.Len(t, drafts, 1)
			assert.Equal(t, tt.expected, drafts[0].VolunteerID)
			assert.Equal(t, tt.kind, drafts[0].Kind)
			assert.Equal(t, 0, store.saves, "drafting never saves")
		})
	}
}

func TestDraftMessages_FirstTimerGetsFirstTimeInvite(t *testing.T) {
	store := newTestStore()
	drafts, err := DraftMessages(context.Background(), store, zap.NewNop(), meetingDate, model.KindInvite, "", true)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Contains(t, drafts[0].Body, "Good morning Carl,")
	assert.Contains(t, drafts[0].Body, "only say yes if you’re confident")
	assert.Contains(t, drafts[0].SMSLink, "sms:5550103&body=")
}

func TestDraftMessages_ForOneVolunteer(t *testing.T) {
	store := newTestStore()
	drafts, err := DraftMessages(context.Background(), store, zap.NewNop(), meetingDate, model.KindInvite, "Dave", false)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "dave", drafts[0].VolunteerID)
	assert.Contains(t, drafts[0].SMSLink, "sms:5550104?body=")
}

func TestDraftMessages_Errors(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, err := DraftMessages(ctx, store, zap.NewNop(), "2025-07-04", model.KindInvite, "", false)
	assert.ErrorIs(t, err, ErrNoWeek)

	_, err = DraftMessages(ctx, store, zap.NewNop(), meetingDate, model.KindInvite, "Zed", false)
	assert.ErrorIs(t, err, ErrVolunteerNotFound)

	_, err = DraftMessages(ctx, store, zap.NewNop(), meetingDate, "thankYou", "", false)
	assert.Error(t, err)
}
