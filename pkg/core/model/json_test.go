package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const originalShapedState = `{
  "version": 1,
  "theme": "calm",
  "settings": {
    "meetingName": "Gateway Men's Meeting",
    "minConfirmed": 9,
    "preferredConfirmed": 12,
    "messages": {"invite": "Hi [Name]", "legacyNote": "keep me"}
  },
  "volunteers": [
    {
      "id": "v1",
      "name": "John D.",
      "phone": "555-0100",
      "coreRole": null,
      "inviteCadence": "Monthly",
      "active": true,
      "firstTime": false,
      "lastInvitedAt": "2025-01-01T18:30:00.000Z",
      "lastConfirmedDate": null,
      "lastDeclinedDate": null,
      "favouriteColour": "blue"
    }
  ],
  "weeks": [
    {
      "id": "w1",
      "date": "2025-06-06",
      "neededCount": 14,
      "finalized": false,
      "invites": [
        {
          "id": "i1",
          "volunteerId": "v1",
          "status": "Invited",
          "inviteSentAt": "2025-06-02T15:04:05Z",
          "followUpSentAt": null,
          "responseAt": null,
          "createdAt": "2025-06-01T10:00:00Z",
          "autoAdded": false,
          "autoAddedAt": null,
          "prevLastInvitedAt": null
        }
      ]
    }
  ]
}`

func TestState_UnmarshalOriginalShape(t *testing.T) {
	state := NewState(Settings{MaxVolunteers: 14, MeetingDay: "Friday"})
	require.NoError(t, json.Unmarshal([]byte(originalShapedState), state))

	assert.Equal(t, 1, state.Version)
	assert.Equal(t, 12, state.Settings.PreferredConfirmed)
	// Missing keys keep the seeded defaults
	assert.Equal(t, 14, state.Settings.MaxVolunteers)
	assert.Equal(t, "Friday", state.Settings.MeetingDay)

	require.Len(t, state.Volunteers, 1)
	v := state.Volunteers[0]
	assert.Equal(t, RoleVolunteer, v.Role())
	assert.Equal(t, Date("2025-01-01"), v.LastInvitedAt, "timestamps are trimmed to dates")
	assert.True(t, v.LastConfirmedDate.IsZero())
	assert.Contains(t, v.Extra, "favouriteColour")

	require.Len(t, state.Weeks, 1)
	inv := state.Weeks[0].Invites[0]
	assert.Equal(t, StatusInvited, inv.Status)
	assert.True(t, inv.PrevLastInvitedAt.Captured, "a null snapshot is still a captured snapshot")
	assert.True(t, inv.PrevLastInvitedAt.Value.IsZero())
	assert.False(t, inv.PrevLastConfirmedDate.Captured)
	require.NotNil(t, inv.InviteSentAt)
	assert.Nil(t, inv.ResponseAt)

	assert.Contains(t, state.Extra, "theme")
	assert.Contains(t, state.Settings.Messages.Extra, "legacyNote")
}

func TestState_RoundTripKeepsUnknownFieldsAndSnapshots(t *testing.T) {
	state := NewState(Settings{})
	require.NoError(t, json.Unmarshal([]byte(originalShapedState), state))

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, "calm", generic["theme"])

	volunteers := generic["volunteers"].([]any)
	assert.Equal(t, "blue", volunteers[0].(map[string]any)["favouriteColour"])

	invite := generic["weeks"].([]any)[0].(map[string]any)["invites"].([]any)[0].(map[string]any)
	prev, present := invite["prevLastInvitedAt"]
	assert.True(t, present)
	assert.Nil(t, prev)
	_, present = invite["prevLastConfirmedDate"]
	assert.False(t, present, "uncaptured snapshots are omitted")

	reloaded := NewState(Settings{})
	require.NoError(t, json.Unmarshal(data, reloaded))
	assert.Equal(t, state.Weeks[0].Invites[0].PrevLastInvitedAt, reloaded.Weeks[0].Invites[0].PrevLastInvitedAt)
	assert.Equal(t, state.Volunteers[0].LastInvitedAt, reloaded.Volunteers[0].LastInvitedAt)
}

func TestInvite_RejectsUnknownStatus(t *testing.T) {
	var inv Invite
	err := json.Unmarshal([]byte(`{"id":"i1","volunteerId":"v1","status":"Maybe"}`), &inv)
	assert.Error(t, err)
}

func TestInvite_MissingStatusDefaultsToNotInvited(t *testing.T) {
	var inv Invite
	require.NoError(t, json.Unmarshal([]byte(`{"id":"i1","volunteerId":"v1"}`), &inv))
	assert.Equal(t, StatusNotInvited, inv.Status)
}

func TestState_MissingCollectionsBecomeEmpty(t *testing.T) {
	state := &State{}
	require.NoError(t, json.Unmarshal([]byte(`{"version":1,"settings":{}}`), state))
	assert.NotNil(t, state.Volunteers)
	assert.NotNil(t, state.Weeks)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
	}{
		{"Not Invited", StatusNotInvited},
		{"not-invited", StatusNotInvited},
		{"invited", StatusInvited},
		{" CONFIRMED ", StatusConfirmed},
		{"declined", StatusDeclined},
		{"no_response", StatusNoResponse},
		{"noresponse", StatusNoResponse},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := ParseStatus(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}

	_, err := ParseStatus("maybe")
	assert.Error(t, err)
}

func TestState_CloneIsDeep(t *testing.T) {
	state := NewState(Settings{})
	require.NoError(t, json.Unmarshal([]byte(originalShapedState), state))

	clone := state.Clone()
	clone.Volunteers[0].LastInvitedAt = "2030-01-01"
	clone.Weeks[0].Invites[0].Status = StatusConfirmed
	*clone.Weeks[0].Invites[0].InviteSentAt = clone.Weeks[0].Invites[0].InviteSentAt.AddDate(1, 0, 0)
	clone.Weeks[0].Finalized = true

	assert.Equal(t, Date("2025-01-01"), state.Volunteers[0].LastInvitedAt)
	assert.Equal(t, StatusInvited, state.Weeks[0].Invites[0].Status)
	assert.Equal(t, 2025, state.Weeks[0].Invites[0].InviteSentAt.Year())
	assert.False(t, state.Weeks[0].Finalized)
}
