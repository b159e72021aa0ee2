package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// mockRosterClient implements RosterClient for testing
type mockRosterClient struct {
	volunteers []model.Volunteer
	err        error

	spreadsheetID string
	tab           string
}

func (m *mockRosterClient) ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]model.Volunteer, error) {
	m.spreadsheetID = spreadsheetID
	m.tab = tab
	if m.err != nil {
		return nil, m.err
	}
	return m.volunteers, nil
}

func TestSyncRoster(t *testing.T) {
	store := newTestStore()
	client := &mockRosterClient{
		volunteers: []model.Volunteer{
			{Name: "bob", Phone: "555-2222", Active: true},
			{Name: "Hank", Phone: "555-0108", Active: true},
			{Name: "", Phone: "555-0000", Active: true},
		},
	}

	result, err := SyncRoster(context.Background(), store, client, zap.NewNop(), "sheet-1", "Roster", model.CadenceMonthly, sequentialIDs("vol"))
	require.NoError(t, err)
	assert.Equal(t, "sheet-1", client.spreadsheetID)
	assert.Equal(t, "Roster", client.tab)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Updated)
	assert.Len(t, result.Skipped, 1)
	assert.Equal(t, 1, store.saves)

	assert.Equal(t, "555-2222", store.state.Volunteer("bob").Phone)
	require.NotNil(t, store.state.Volunteer("vol-1"))
	assert.Equal(t, "Hank", store.state.Volunteer("vol-1").Name)
}

func TestSyncRoster_Errors(t *testing.T) {
	t.Run("client error", func(t *testing.T) {
		store := newTestStore()
		client := &mockRosterClient{err: errors.New("quota exceeded")}
		_, err := SyncRoster(context.Background(), store, client, zap.NewNop(), "sheet-1", "Roster", model.CadenceMonthly, sequentialIDs("vol"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read roster")
		assert.Equal(t, 0, store.saves)
	})

	t.Run("nothing usable is not saved", func(t *testing.T) {
		store := newTestStore()
		client := &mockRosterClient{volunteers: []model.Volunteer{{Name: "No Phone"}}}
		result, err := SyncRoster(context.Background(), store, client, zap.NewNop(), "sheet-1", "Roster", model.CadenceMonthly, sequentialIDs("vol"))
		require.NoError(t, err)
		assert.Len(t, result.Skipped, 1)
		assert.Equal(t, 0, store.saves)
	})
}
