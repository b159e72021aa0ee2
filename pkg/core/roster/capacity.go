package roster

import "github.com/jakechorley/gateway-to-service/pkg/core/model"

// TargetCount is the list size new weeks are built to and backfill/trim aim for
func TargetCount(s model.Settings) int {
	return min(s.PreferredConfirmed, s.MaxVolunteers)
}

// IsDropped reports whether the status takes the invitee out of the active pool
func IsDropped(status model.Status) bool {
	return status == model.StatusDeclined || status == model.StatusNoResponse
}

// IsActivePoolStatus reports whether the invitee still counts toward capacity
func IsActivePoolStatus(status model.Status) bool {
	return !IsDropped(status)
}

// ActivePoolCount counts invites still in play for the week
func ActivePoolCount(w *model.Week) int {
	count := 0
	for _, inv := range w.Invites {
		if IsActivePoolStatus(inv.Status) {
			count++
		}
	}
	return count
}

// isRemovable reports whether an invite is early enough in its lifecycle to be auto-removed
func isRemovable(status model.Status) bool {
	return status == model.StatusNotInvited || status == model.StatusInvited
}
