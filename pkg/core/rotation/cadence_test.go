package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

func TestCooldownDays(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name      string
		volunteer model.Volunteer
		expected  int
	}{
		{"weekly", model.Volunteer{InviteCadence: "weekly"}, 0},
		{"biweekly", model.Volunteer{InviteCadence: "biweekly"}, 7},
		{"monthly", model.Volunteer{InviteCadence: "monthly"}, 21},
		{"quarterly", model.Volunteer{InviteCadence: "quarterly"}, 90},
		{"yearly", model.Volunteer{InviteCadence: "yearly"}, 364},
		{"mixed case and padding", model.Volunteer{InviteCadence: "  Quarterly "}, 90},
		{"unset falls back to default", model.Volunteer{}, 21},
		{"unrecognised falls back to default", model.Volunteer{InviteCadence: "fortnightly"}, 21},
		{"pinned role ignores cadence", model.Volunteer{CoreRole: model.RoleChairperson, InviteCadence: "yearly"}, 0},
		{"alternate role ignores cadence", model.Volunteer{CoreRole: model.RoleAltBigBookLead, InviteCadence: "yearly"}, 0},
		{"generic volunteer role uses cadence", model.Volunteer{CoreRole: model.RoleVolunteer, InviteCadence: "yearly"}, 364},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.CooldownDays(tt.volunteer))
		})
	}
}

func TestCooldownDays_CustomDefaultCadence(t *testing.T) {
	policy := DefaultPolicy()
	policy.DefaultCadence = model.CadenceQuarterly

	assert.Equal(t, 90, policy.CooldownDays(model.Volunteer{}))
	assert.Equal(t, 90, policy.CooldownDays(model.Volunteer{InviteCadence: "sometimes"}))
	assert.Equal(t, 7, policy.CooldownDays(model.Volunteer{InviteCadence: "biweekly"}))
}

func TestLastTouch(t *testing.T) {
	v := model.Volunteer{
		LastInvitedAt:     "2025-01-01",
		LastConfirmedDate: "2024-12-01",
		LastDeclinedDate:  "2025-02-01",
	}
	assert.Equal(t, model.Date("2025-02-01"), LastTouch(v))
	assert.True(t, LastTouch(model.Volunteer{}).IsZero())
}

func TestEligibleOn_MonthlyScenario(t *testing.T) {
	policy := DefaultPolicy()
	v := model.Volunteer{InviteCadence: "monthly", LastInvitedAt: "2025-01-01"}

	assert.Equal(t, model.Date("2025-01-22"), policy.EligibleOn(v, "2025-01-10"))
	assert.False(t, policy.IsEligible(v, "2025-01-21"))
	assert.True(t, policy.IsEligible(v, "2025-01-22"))
}

func TestEligibleOn_UsesLatestTouchIncludingDecline(t *testing.T) {
	policy := DefaultPolicy()
	v := model.Volunteer{
		InviteCadence:     "biweekly",
		LastInvitedAt:     "2025-01-01",
		LastConfirmedDate: "2025-01-03",
		LastDeclinedDate:  "2025-01-10",
	}

	assert.Equal(t, model.Date("2025-01-17"), policy.EligibleOn(v, "2025-01-12"))
}

func TestEligibleOn_NoHistoryIsEligibleImmediately(t *testing.T) {
	policy := DefaultPolicy()
	v := model.Volunteer{InviteCadence: "yearly"}

	assert.Equal(t, model.Date("2025-06-06"), policy.EligibleOn(v, "2025-06-06"))
	assert.True(t, policy.IsEligible(v, "2025-06-06"))
}

func TestEligibleOn_UnparseableHistoryDoesNotBlock(t *testing.T) {
	policy := DefaultPolicy()
	v := model.Volunteer{InviteCadence: "monthly", LastInvitedAt: "garbage-in"}

	assert.True(t, policy.IsEligible(v, "2025-06-06"))
}

func TestIsEligible_Monotonic(t *testing.T) {
	policy := DefaultPolicy()
	volunteers := []model.Volunteer{
		{InviteCadence: "biweekly", LastConfirmedDate: "2025-03-07"},
		{InviteCadence: "monthly", LastInvitedAt: "2025-02-28", LastDeclinedDate: "2025-03-07"},
		{InviteCadence: "quarterly", LastDeclinedDate: "2024-12-27"},
		{InviteCadence: "yearly", LastInvitedAt: "2025-01-03"},
	}

	start := model.Date("2024-12-01")
	for _, v := range volunteers {
		eligibleOn := policy.EligibleOn(v, "2025-03-07")
		for d := start; d < "2026-03-01"; d = d.AddDays(1) {
			if d < eligibleOn {
				assert.False(t, policy.IsEligible(v, d), "%s should be ineligible on %s (eligible %s)", v.InviteCadence, d, eligibleOn)
			} else {
				assert.True(t, policy.IsEligible(v, d), "%s should be eligible on %s (eligible %s)", v.InviteCadence, d, eligibleOn)
			}
		}
	}
}

func TestIsEligible_PinnedRolesAlwaysEligible(t *testing.T) {
	policy := DefaultPolicy()

	for _, role := range append(append([]model.Role{}, policy.PinnedRoles...), policy.AlternateRoles...) {
		v := model.Volunteer{
			CoreRole:          role,
			InviteCadence:     "yearly",
			LastInvitedAt:     "2025-06-06",
			LastConfirmedDate: "2025-06-06",
			LastDeclinedDate:  "2025-06-06",
		}
		for _, d := range []model.Date{"2025-06-06", "2025-06-07", "2025-06-13", "2026-01-01"} {
			assert.True(t, policy.IsEligible(v, d), "%s on %s", role, d)
		}
	}
}

func TestIsProtected(t *testing.T) {
	policy := DefaultPolicy()

	assert.True(t, policy.IsProtected(&model.Volunteer{CoreRole: model.RoleMeetingSteward}))
	assert.False(t, policy.IsProtected(&model.Volunteer{CoreRole: model.RoleAltChairperson}))
	assert.False(t, policy.IsProtected(&model.Volunteer{}))
	assert.False(t, policy.IsProtected(nil))
}
