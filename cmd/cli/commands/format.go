package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorDim    = "\033[2m"
)

func stageColor(stage services.Stage) string {
	switch stage {
	case services.StageFinalized:
		return colorGreen
	case services.StageConfirm:
		return colorBlue
	case services.StageInvite:
		return colorYellow
	default:
		return colorDim
	}
}

func statusColor(status model.Status) string {
	switch status {
	case model.StatusConfirmed:
		return colorGreen
	case model.StatusInvited:
		return colorYellow
	case model.StatusDeclined, model.StatusNoResponse:
		return colorRed
	default:
		return colorDim
	}
}

// printSummary renders a week with its coverage line and invitees grouped by status
func printSummary(w io.Writer, s *services.WeekSummary) {
	fmt.Fprintf(w, "\n%s  %s%s%s\n", s.Date, stageColor(s.Stage), s.Stage, colorReset)
	fmt.Fprintf(w, "Confirmed %d / min %d / preferred %d", s.Confirmed, s.MinConfirmed, s.Preferred)
	if s.StillNeeded > 0 {
		fmt.Fprintf(w, "  (%d still needed)", s.StillNeeded)
	}
	fmt.Fprintln(w)

	if s.Stage == services.StageBuild {
		fmt.Fprintln(w, "No list yet. Run 'build' to create it.")
		return
	}

	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, line := range s.Invites {
		fmt.Fprintf(w, "%s%-12s%s %s", statusColor(line.Status), line.Status, colorReset, line.Name)
		var tags []string
		if line.Role != "" && line.Role != model.RoleVolunteer {
			tags = append(tags, string(line.Role))
		}
		if line.FirstTime {
			tags = append(tags, "first time")
		}
		if line.AutoAdded {
			tags = append(tags, "auto-added")
		}
		if len(tags) > 0 {
			fmt.Fprintf(w, " %s(%s)%s", colorDim, strings.Join(tags, ", "), colorReset)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// printResult shows what a change did: backfills, trims and notices
func printResult(w io.Writer, result *services.Result) {
	if result.Changed() {
		fmt.Fprintln(w, "✓ Saved")
	}
	for _, notice := range result.Outcome.Notices {
		fmt.Fprintf(w, "  • %s\n", notice)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
