package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

func TestParseRoster(t *testing.T) {
	raw := [][]interface{}{
		{"name", "Phone", "Role", "Cadence", "Active", "First Time", "ID", "Notes"},
		{"Alice", "555-0101", "Chairperson", "weekly", "yes", "", "v1", "keys"},
		{"Bob", "555-0102", "", "", "no", "y"},
		{"", "555-0103"},
		{"Carl", "555-0104", "alt big book lead", "Quarterly"},
	}

	volunteers, err := parseRoster(raw)
	require.NoError(t, err)
	require.Len(t, volunteers, 3)

	assert.Equal(t, model.Volunteer{
		ID:            "v1",
		Name:          "Alice",
		Phone:         "555-0101",
		CoreRole:      model.RoleChairperson,
		InviteCadence: model.CadenceWeekly,
		Active:        true,
	}, volunteers[0])

	assert.Equal(t, "", volunteers[1].ID)
	assert.Equal(t, model.RoleVolunteer, volunteers[1].CoreRole)
	assert.Equal(t, model.Cadence(""), volunteers[1].InviteCadence)
	assert.False(t, volunteers[1].Active)
	assert.True(t, volunteers[1].FirstTime)

	assert.Equal(t, model.RoleAltBigBookLead, volunteers[2].CoreRole)
	assert.Equal(t, model.CadenceQuarterly, volunteers[2].InviteCadence)
	assert.True(t, volunteers[2].Active)
}

func TestParseRoster_OnlyRequiredColumns(t *testing.T) {
	volunteers, err := parseRoster([][]interface{}{
		{"Phone", "Name"},
		{"555-0101", "Alice"},
	})
	require.NoError(t, err)
	require.Len(t, volunteers, 1)
	assert.Equal(t, "Alice", volunteers[0].Name)
	assert.Equal(t, "555-0101", volunteers[0].Phone)
	assert.True(t, volunteers[0].Active)
}

func TestParseRoster_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      [][]interface{}
		contains string
	}{
		{"no header", [][]interface{}{}, "no header row"},
		{"missing phone column", [][]interface{}{{"Name"}, {"Alice"}}, "missing required column in header: Phone"},
		{"unknown role", [][]interface{}{{"Name", "Phone", "Role"}, {"Alice", "1", "Treasurer"}}, "row 2"},
		{"unknown cadence", [][]interface{}{{"Name", "Phone", "Cadence"}, {"Alice", "1", "daily"}}, "unknown cadence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRoster(tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseFlag(t *testing.T) {
	assert.True(t, parseFlag("", true))
	assert.False(t, parseFlag("", false))
	assert.True(t, parseFlag("Yes", false))
	assert.True(t, parseFlag("TRUE", false))
	assert.False(t, parseFlag("inactive", true))
}
