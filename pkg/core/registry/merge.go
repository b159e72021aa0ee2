package registry

import (
	"fmt"
	"strings"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// MergeResult summarises an import of volunteer records from an external roster
type MergeResult struct {
	Added   int
	Updated int

	// Skipped holds one reason per row that could not be imported
	Skipped []string
}

// Merge upserts volunteers from an external roster. Rows match an existing
// volunteer by ID, or by case-insensitive name when the row has no ID. Profile
// fields are overwritten; history dates already in the registry are kept.
func Merge(state *model.State, incoming []model.Volunteer, defaultCadence model.Cadence, newID func() string) (*model.State, MergeResult) {
	var result MergeResult
	out := state.Clone()

	byName := make(map[string]int, len(out.Volunteers))
	for i, v := range out.Volunteers {
		byName[strings.ToLower(strings.TrimSpace(v.Name))] = i
	}

	for row, in := range incoming {
		p, err := Profile{
			Name:      in.Name,
			Phone:     in.Phone,
			Role:      in.CoreRole,
			Cadence:   in.InviteCadence,
			FirstTime: in.FirstTime,
			Active:    in.Active,
		}.normalize(defaultCadence)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d (%s): %v", row+1, in.Name, err))
			continue
		}

		idx := -1
		if in.ID != "" {
			idx = out.VolunteerIndex(in.ID)
		} else if i, ok := byName[strings.ToLower(p.Name)]; ok {
			idx = i
		}

		if idx >= 0 {
			v := &out.Volunteers[idx]
			v.Name = p.Name
			v.Phone = p.Phone
			v.CoreRole = p.Role
			v.InviteCadence = p.Cadence
			v.FirstTime = p.FirstTime
			v.Active = p.Active
			fillHistory(v, in)
			result.Updated++
			continue
		}

		v := model.Volunteer{
			ID:                in.ID,
			Name:              p.Name,
			Phone:             p.Phone,
			CoreRole:          p.Role,
			InviteCadence:     p.Cadence,
			Active:            p.Active,
			FirstTime:         p.FirstTime,
			LastInvitedAt:     in.LastInvitedAt,
			LastConfirmedDate: in.LastConfirmedDate,
			LastDeclinedDate:  in.LastDeclinedDate,
		}
		if v.ID == "" {
			v.ID = newID()
		}
		out.Volunteers = append(out.Volunteers, v)
		byName[strings.ToLower(v.Name)] = len(out.Volunteers) - 1
		result.Added++
	}

	return out, result
}

// fillHistory copies history dates from the row only where the registry has none
func fillHistory(v *model.Volunteer, in model.Volunteer) {
	if v.LastInvitedAt.IsZero() {
		v.LastInvitedAt = in.LastInvitedAt
	}
	if v.LastConfirmedDate.IsZero() {
		v.LastConfirmedDate = in.LastConfirmedDate
	}
	if v.LastDeclinedDate.IsZero() {
		v.LastDeclinedDate = in.LastDeclinedDate
	}
}
