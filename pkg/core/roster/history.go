package roster

import "github.com/jakechorley/gateway-to-service/pkg/core/model"

// touchField is one of the volunteer history dates an invite can write
type touchField int

const (
	touchInvited touchField = iota
	touchConfirmed
	touchDeclined
)

var allTouchFields = []touchField{touchInvited, touchConfirmed, touchDeclined}

// touchFor returns the history field a status writes, if any
func touchFor(status model.Status) (touchField, bool) {
	switch status {
	case model.StatusInvited:
		return touchInvited, true
	case model.StatusConfirmed:
		return touchConfirmed, true
	case model.StatusDeclined, model.StatusNoResponse:
		return touchDeclined, true
	default:
		return 0, false
	}
}

func (f touchField) get(v *model.Volunteer) model.Date {
	switch f {
	case touchInvited:
		return v.LastInvitedAt
	case touchConfirmed:
		return v.LastConfirmedDate
	default:
		return v.LastDeclinedDate
	}
}

func (f touchField) set(v *model.Volunteer, d model.Date) {
	switch f {
	case touchInvited:
		v.LastInvitedAt = d
	case touchConfirmed:
		v.LastConfirmedDate = d
	default:
		v.LastDeclinedDate = d
	}
}

func (f touchField) snapshot(inv *model.Invite) *model.Snapshot {
	switch f {
	case touchInvited:
		return &inv.PrevLastInvitedAt
	case touchConfirmed:
		return &inv.PrevLastConfirmedDate
	default:
		return &inv.PrevLastDeclinedDate
	}
}

// writeTouch stamps the field with the week date, capturing the prior value the
// first time this invite writes it
func writeTouch(v *model.Volunteer, inv *model.Invite, f touchField, date model.Date) {
	snap := f.snapshot(inv)
	if !snap.Captured {
		*snap = model.Capture(f.get(v))
	}
	f.set(v, date)
}

// restoreTouch puts the field back to its captured value, but only while it
// still holds this week's date. A later week's touch is left alone.
func restoreTouch(v *model.Volunteer, inv *model.Invite, f touchField, date model.Date) bool {
	if date.IsZero() || f.get(v) != date {
		return false
	}
	// An uncaptured snapshot has an unset Value, which clears the field
	f.set(v, f.snapshot(inv).Value)
	return true
}

// restoreAllTouches undoes every history write the invite made. Used when the
// invite is removed from the week; fields it never captured were not written by
// it and are kept.
func restoreAllTouches(v *model.Volunteer, inv *model.Invite, date model.Date) {
	for _, f := range allTouchFields {
		if f.snapshot(inv).Captured {
			restoreTouch(v, inv, f, date)
		}
	}
}
