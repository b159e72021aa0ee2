package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

func TestBackupFileName(t *testing.T) {
	assert.Equal(t, "gateway-to-service-backup-2025-06-06.json", BackupFileName("2025-06-06"))
}

func TestExportImport(t *testing.T) {
	data, err := Export(sampleState())
	require.NoError(t, err)

	imported, err := Import(data, model.DefaultState())
	require.NoError(t, err)
	assert.Equal(t, sampleState().Volunteers[0].Name, imported.Volunteers[0].Name)
	assert.Equal(t, sampleState().Weeks[0].Date, imported.Weeks[0].Date)
}

func TestImport_DoesNotInheritBaseRecords(t *testing.T) {
	base := sampleState()

	imported, err := Import([]byte(`{"version": 1, "settings": {"messages": {}}, "volunteers": [], "weeks": []}`), base)
	require.NoError(t, err)
	assert.Empty(t, imported.Volunteers)
	assert.Empty(t, imported.Weeks)
	// messages absent from the backup fall back to the base text
	assert.Equal(t, base.Settings.Messages.Invite, imported.Settings.Messages.Invite)
	// base untouched
	assert.Len(t, base.Volunteers, 1)
}

func TestImport_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `volunteers: []`},
		{"missing version", `{"settings": {"messages": {}}, "volunteers": [], "weeks": []}`},
		{"wrong version", `{"version": 2, "settings": {"messages": {}}, "volunteers": [], "weeks": []}`},
		{"missing settings", `{"version": 1, "volunteers": [], "weeks": []}`},
		{"missing messages", `{"version": 1, "settings": {}, "volunteers": [], "weeks": []}`},
		{"missing volunteers", `{"version": 1, "settings": {"messages": {}}, "weeks": []}`},
		{"missing weeks", `{"version": 1, "settings": {"messages": {}}, "volunteers": []}`},
		{"volunteer without name", `{"version": 1, "settings": {"messages": {}},
			"volunteers": [{"id": "v1"}], "weeks": []}`},
		{"week with bad date", `{"version": 1, "settings": {"messages": {}}, "volunteers": [],
			"weeks": [{"id": "w1", "date": "June 6"}]}`},
		{"invite without volunteer", `{"version": 1, "settings": {"messages": {}}, "volunteers": [],
			"weeks": [{"id": "w1", "date": "2025-06-06", "invites": [{"id": "i1"}]}]}`},
		{"unknown status", `{"version": 1, "settings": {"messages": {}}, "volunteers": [],
			"weeks": [{"id": "w1", "date": "2025-06-06", "invites": [{"id": "i1", "volunteerId": "v1", "status": "Maybe"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := Import([]byte(tt.data), model.DefaultState())
			assert.Error(t, err)
			assert.Nil(t, state)
		})
	}
}
