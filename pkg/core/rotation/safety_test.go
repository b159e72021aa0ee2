package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

func TestSafetyNotes(t *testing.T) {
	policy := DefaultPolicy()
	ref := model.Date("2025-06-06")

	tests := []struct {
		name      string
		volunteer model.Volunteer
		expected  []string
	}{
		{
			name:      "no history",
			volunteer: model.Volunteer{InviteCadence: "monthly"},
			expected:  nil,
		},
		{
			name:      "served last week",
			volunteer: model.Volunteer{InviteCadence: "weekly", LastConfirmedDate: "2025-05-30"},
			expected:  []string{"Already served last week"},
		},
		{
			name:      "recent decline",
			volunteer: model.Volunteer{InviteCadence: "weekly", LastDeclinedDate: "2025-05-30"},
			expected:  []string{"Recently declined (2025-05-30)"},
		},
		{
			name:      "decline outside the window",
			volunteer: model.Volunteer{InviteCadence: "weekly", LastDeclinedDate: "2025-05-16"},
			expected:  nil,
		},
		{
			name:      "still cooling down",
			volunteer: model.Volunteer{InviteCadence: "monthly", LastInvitedAt: "2025-05-30"},
			expected:  []string{"Not due yet (monthly)"},
		},
		{
			name:      "served last week and in cooldown",
			volunteer: model.Volunteer{InviteCadence: "monthly", LastConfirmedDate: "2025-05-30"},
			expected:  []string{"Already served last week", "Not due yet (monthly)"},
		},
		{
			name:      "decline exactly two weeks ago",
			volunteer: model.Volunteer{InviteCadence: "weekly", LastDeclinedDate: "2025-05-23"},
			expected:  nil,
		},
		{
			name:      "no cadence or history",
			volunteer: model.Volunteer{},
			expected:  nil,
		},
		{
			name:      "all notes together",
			volunteer: model.Volunteer{InviteCadence: "monthly", LastConfirmedDate: "2025-05-30", LastDeclinedDate: "2025-05-25"},
			expected: []string{
				"Already served last week",
				"Recently declined (2025-05-25)",
				"Not due yet (monthly)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.SafetyNotes(tt.volunteer, ref))
		})
	}
}
