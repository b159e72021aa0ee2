package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

func TestStageColor(t *testing.T) {
	tests := []struct {
		stage    services.Stage
		expected string
	}{
		{services.StageBuild, colorDim},
		{services.StageInvite, colorYellow},
		{services.StageConfirm, colorBlue},
		{services.StageFinalized, colorGreen},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			assert.Equal(t, tt.expected, stageColor(tt.stage))
		})
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status   model.Status
		expected string
	}{
		{model.StatusNotInvited, colorDim},
		{model.StatusInvited, colorYellow},
		{model.StatusConfirmed, colorGreen},
		{model.StatusDeclined, colorRed},
		{model.StatusNoResponse, colorRed},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusColor(tt.status))
		})
	}
}

func TestPrintSummary(t *testing.T) {
	t.Run("no list", func(t *testing.T) {
		var buf bytes.Buffer
		printSummary(&buf, &services.WeekSummary{Date: "2025-06-06", Stage: services.StageBuild, MinConfirmed: 9, StillNeeded: 9})
		assert.Contains(t, buf.String(), "No list yet")
		assert.Contains(t, buf.String(), "(9 still needed)")
	})

	t.Run("with invites", func(t *testing.T) {
		var buf bytes.Buffer
		printSummary(&buf, &services.WeekSummary{
			Date:  "2025-06-06",
			Stage: services.StageInvite,
			Invites: []services.InviteLine{
				{Name: "Alice", Role: model.RoleChairperson, Status: model.StatusConfirmed},
				{Name: "Carl", Role: model.RoleVolunteer, Status: model.StatusNotInvited, FirstTime: true, AutoAdded: true},
			},
		})
		out := buf.String()
		assert.Contains(t, out, "Alice "+colorDim+"("+string(model.RoleChairperson)+")")
		assert.Contains(t, out, "Carl "+colorDim+"(first time, auto-added)")
	})
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &services.Result{Outcome: roster.Outcome{Changed: true, Notices: []string{"Auto-added: Dave"}}})
	assert.Equal(t, "✓ Saved\n  • Auto-added: Dave\n", buf.String())

	buf.Reset()
	printResult(&buf, &services.Result{Outcome: roster.Outcome{Notices: []string{"Need 9 confirmed to finalize (have 3)"}}})
	assert.Equal(t, "  • Need 9 confirmed to finalize (have 3)\n", buf.String())
}
