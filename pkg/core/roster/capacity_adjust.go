package roster

import (
	"time"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/rotation"
)

// backfill adds one replacement when a drop leaves the week under target
func (e *Engine) backfill(state *model.State, w *model.Week, now time.Time, o *Outcome) {
	if w.Finalized {
		return
	}
	target := TargetCount(state.Settings)
	if ActivePoolCount(w) >= target {
		return
	}

	exclude := make(map[string]bool, len(w.Invites))
	for _, inv := range w.Invites {
		exclude[inv.VolunteerID] = true
	}
	ranked := e.Policy.Rank(state.Volunteers, w.Date, rotation.RankOptions{ExcludeIDs: exclude, OnlyActive: true})

	v, ok := rotation.PickReplacement(ranked)
	if !ok {
		o.notice("No one left to backfill (%d of %d)", ActivePoolCount(w), target)
		return
	}

	inv := e.newInvite(v.ID, now)
	added := now
	inv.AutoAdded = true
	inv.AutoAddedAt = &added
	w.Invites = append(w.Invites, inv)

	o.Added = append(o.Added, v.ID)
	o.notice("Auto-added: %s", v.Name)
}

// trimOverflow removes one not-yet-confirmed invite when the active pool is over
// target. Backfilled invites go first, newest first. Confirmed invitees and pinned
// roles are never removed; if nobody else qualifies the overflow stays.
func (e *Engine) trimOverflow(state *model.State, w *model.Week, o *Outcome) {
	target := TargetCount(state.Settings)
	if ActivePoolCount(w) <= target {
		return
	}

	var autoAdded, anyRemovable []int
	for i, inv := range w.Invites {
		if !isRemovable(inv.Status) || e.Policy.IsProtected(state.Volunteer(inv.VolunteerID)) {
			continue
		}
		anyRemovable = append(anyRemovable, i)
		if inv.AutoAdded {
			autoAdded = append(autoAdded, i)
		}
	}

	pool := autoAdded
	if len(pool) == 0 {
		pool = anyRemovable
	}
	if len(pool) == 0 {
		o.notice("Over capacity (%d of %d) with no one safe to remove", ActivePoolCount(w), target)
		return
	}

	newest := pool[0]
	for _, i := range pool[1:] {
		// Later in the list wins ties
		if !addedAt(w.Invites[i]).Before(addedAt(w.Invites[newest])) {
			newest = i
		}
	}

	removed := removeInvite(state, w, newest)
	o.Removed = append(o.Removed, removed.VolunteerID)
	name := removed.VolunteerID
	if v := state.Volunteer(removed.VolunteerID); v != nil {
		name = v.Name
	}
	o.notice("Auto-removed (capacity): %s", name)
}

// addedAt is when the invite last joined the list: the latest of its backfill,
// creation and send times
func addedAt(inv model.Invite) time.Time {
	var latest time.Time
	for _, t := range []*time.Time{inv.AutoAddedAt, inv.CreatedAt, inv.InviteSentAt} {
		if t != nil && t.After(latest) {
			latest = *t
		}
	}
	return latest
}
