package roster

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/rotation"
)

// Engine applies coordinator actions to the application state.
//
// Every operation takes the current state and returns the next one. The input is
// never modified: work happens on a deep clone, so a caller that fails to persist
// the result still holds a consistent snapshot. Operations that do not apply
// (unknown week, volunteer already on the list, gate not met) return the input
// state unchanged with Outcome.Changed false.
type Engine struct {
	Policy rotation.Policy

	// Now stamps invite timestamps
	Now func() time.Time

	// NewID generates week and invite IDs
	NewID func() string
}

// Outcome describes what an operation did
type Outcome struct {
	// Changed is false when the operation was a no-op
	Changed bool

	// WeekID is the week the operation applied to
	WeekID string

	// Added are volunteers auto-added by backfill
	Added []string

	// Removed are volunteers auto-removed by overflow-trim
	Removed []string

	// Notices are human-readable messages about side effects or why nothing happened
	Notices []string
}

func (o *Outcome) notice(format string, args ...any) {
	o.Notices = append(o.Notices, fmt.Sprintf(format, args...))
}

func noop(format string, args ...any) Outcome {
	var o Outcome
	o.notice(format, args...)
	return o
}

// NewEngine creates an engine using the wall clock and random UUIDs
func NewEngine(policy rotation.Policy) *Engine {
	return &Engine{
		Policy: policy,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

func (e *Engine) newInvite(volunteerID string, now time.Time) model.Invite {
	created := now
	return model.Invite{
		ID:          e.newID(),
		VolunteerID: volunteerID,
		Status:      model.StatusNotInvited,
		CreatedAt:   &created,
	}
}

func findWeek(state *model.State, weekID string) *model.Week {
	if i := state.WeekIndex(weekID); i >= 0 {
		return &state.Weeks[i]
	}
	return nil
}

// CreateWeekIfMissing builds the invite list for the meeting on date. The list is
// filled up to the target count in three passes: the first active holder of each
// pinned role, then every active weekly volunteer, then the ranked rotation.
// Nothing happens if a week already exists for the date.
func (e *Engine) CreateWeekIfMissing(state *model.State, date model.Date) (*model.State, Outcome) {
	if date.IsZero() {
		return state, noop("No meeting date given")
	}
	if existing := state.WeekByDate(date); existing != nil {
		o := noop("A list for %s already exists", date)
		o.WeekID = existing.ID
		return state, o
	}

	out := state.Clone()
	target := TargetCount(out.Settings)

	used := make(map[string]bool)
	var picked []string
	pick := func(id string) {
		if id == "" || used[id] || len(picked) >= target {
			return
		}
		used[id] = true
		picked = append(picked, id)
	}

	// Pinned roles, in priority order
	for _, role := range e.Policy.PinnedRoles {
		for _, v := range out.Volunteers {
			if v.Active && v.CoreRole == role {
				pick(v.ID)
				break
			}
		}
	}

	// Weekly volunteers by role then name
	weekly := make([]model.Volunteer, 0)
	for _, v := range out.Volunteers {
		if v.Active && e.Policy.ResolveCadence(v) == model.CadenceWeekly {
			weekly = append(weekly, v)
		}
	}
	slices.SortStableFunc(weekly, func(a, b model.Volunteer) int {
		if ra, rb := model.RoleRank(a.Role()), model.RoleRank(b.Role()); ra != rb {
			return ra - rb
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	for _, v := range weekly {
		pick(v.ID)
	}

	// Rotation fills the rest
	if len(picked) < target {
		ranked := e.Policy.Rank(out.Volunteers, date, rotation.RankOptions{ExcludeIDs: used, OnlyActive: true})
		for _, c := range ranked {
			pick(c.Volunteer.ID)
		}
	}

	now := e.now()
	week := model.Week{
		ID:          e.newID(),
		Date:        date,
		NeededCount: out.Settings.MaxVolunteers,
		Invites:     make([]model.Invite, 0, len(picked)),
	}
	for _, id := range picked {
		week.Invites = append(week.Invites, e.newInvite(id, now))
	}

	out.Weeks = append([]model.Week{week}, out.Weeks...)

	o := Outcome{Changed: true, WeekID: week.ID}
	if len(picked) < target {
		o.notice("Only %d of %d places could be filled", len(picked), target)
	}
	return out, o
}

// AddVolunteer puts a volunteer on the week's list by hand
func (e *Engine) AddVolunteer(state *model.State, weekID, volunteerID string) (*model.State, Outcome) {
	w := findWeek(state, weekID)
	if w == nil {
		return state, noop("Week not found")
	}
	v := state.Volunteer(volunteerID)
	if v == nil {
		return state, noop("Volunteer not found")
	}
	if !v.Active {
		return state, noop("%s is inactive", v.Name)
	}
	if w.HasVolunteer(volunteerID) {
		return state, Outcome{WeekID: weekID}
	}

	out := state.Clone()
	w = findWeek(out, weekID)
	unfinalize(w)
	w.Invites = append(w.Invites, e.newInvite(volunteerID, e.now()))

	return out, Outcome{Changed: true, WeekID: weekID}
}

// TransitionStatus moves an invitee to next. The volunteer's history follows the
// status: leaving a status undoes its history write, entering one applies it. A
// drop may pull in a replacement and any transition may trim an overflow, all in
// the same returned state.
func (e *Engine) TransitionStatus(state *model.State, weekID, volunteerID string, next model.Status) (*model.State, Outcome) {
	if !next.IsValid() {
		return state, noop("Unknown status %q", next)
	}
	if w := findWeek(state, weekID); w == nil || !w.HasVolunteer(volunteerID) {
		return state, noop("Invite not found")
	}

	out := state.Clone()
	w := findWeek(out, weekID)
	inv := &w.Invites[w.InviteIndex(volunteerID)]
	now := e.now()

	unfinalize(w)

	previous := inv.Status
	stampTimestamps(inv, next, now)

	if v := out.Volunteer(volunteerID); v != nil {
		if previous != next {
			if f, ok := touchFor(previous); ok {
				restoreTouch(v, inv, f, w.Date)
			}
		}
		if f, ok := touchFor(next); ok {
			writeTouch(v, inv, f, w.Date)
		}
	}
	inv.Status = next

	o := Outcome{Changed: true, WeekID: weekID}

	if IsDropped(next) && previous != next {
		e.backfill(out, w, now, &o)
	}
	e.trimOverflow(out, w, &o)

	return out, o
}

func stampTimestamps(inv *model.Invite, next model.Status, now time.Time) {
	switch next {
	case model.StatusNotInvited:
		inv.InviteSentAt = nil
		inv.FollowUpSentAt = nil
		inv.ResponseAt = nil
	case model.StatusInvited:
		if inv.InviteSentAt == nil {
			sent := now
			inv.InviteSentAt = &sent
		}
		inv.ResponseAt = nil
	default:
		responded := now
		inv.ResponseAt = &responded
	}
}

// RemoveFromWeek takes a volunteer off the list. This is not a decline: any history
// the invite wrote is rolled back.
func (e *Engine) RemoveFromWeek(state *model.State, weekID, volunteerID string) (*model.State, Outcome) {
	if w := findWeek(state, weekID); w == nil || !w.HasVolunteer(volunteerID) {
		return state, noop("Invite not found")
	}

	out := state.Clone()
	w := findWeek(out, weekID)
	unfinalize(w)
	removeInvite(out, w, w.InviteIndex(volunteerID))

	return out, Outcome{Changed: true, WeekID: weekID}
}

// removeInvite deletes the invite at i and restores the volunteer's history
func removeInvite(state *model.State, w *model.Week, i int) model.Invite {
	inv := w.Invites[i]
	if v := state.Volunteer(inv.VolunteerID); v != nil {
		restoreAllTouches(v, &inv, w.Date)
	}
	w.Invites = slices.Delete(w.Invites, i, i+1)
	return inv
}

// Finalize locks the week if it has at least the minimum confirmations
func (e *Engine) Finalize(state *model.State, weekID string) (*model.State, Outcome) {
	w := findWeek(state, weekID)
	if w == nil {
		return state, noop("Week not found")
	}
	if w.Finalized {
		return state, Outcome{WeekID: weekID}
	}
	minConfirmed := state.Settings.MinConfirmed
	if !CanFinalize(w, minConfirmed) {
		o := noop("Need %d confirmed to finalize (have %d)", minConfirmed, w.CountByStatus(model.StatusConfirmed))
		o.WeekID = weekID
		return state, o
	}

	out := state.Clone()
	findWeek(out, weekID).Finalized = true
	return out, Outcome{Changed: true, WeekID: weekID}
}

// DeleteWeek removes the week and its invites. Volunteer history is kept.
func (e *Engine) DeleteWeek(state *model.State, weekID string) (*model.State, Outcome) {
	i := state.WeekIndex(weekID)
	if i < 0 {
		return state, noop("Week not found")
	}

	out := state.Clone()
	out.Weeks = slices.Delete(out.Weeks, i, i+1)
	return out, Outcome{Changed: true, WeekID: weekID}
}

// RecordDelivery updates the week after the coordinator has sent a message. An
// invite marks the invitee Invited, a follow-up stamps its send time and a
// reminder changes nothing.
func (e *Engine) RecordDelivery(state *model.State, weekID, volunteerID string, kind model.MessageKind) (*model.State, Outcome) {
	switch kind {
	case model.KindInvite:
		return e.TransitionStatus(state, weekID, volunteerID, model.StatusInvited)
	case model.KindFollowUp:
		if w := findWeek(state, weekID); w == nil || !w.HasVolunteer(volunteerID) {
			return state, noop("Invite not found")
		}
		out := state.Clone()
		w := findWeek(out, weekID)
		unfinalize(w)
		sent := e.now()
		w.Invites[w.InviteIndex(volunteerID)].FollowUpSentAt = &sent
		return out, Outcome{Changed: true, WeekID: weekID}
	case model.KindReminder:
		return state, Outcome{WeekID: weekID}
	default:
		return state, noop("Unknown message kind %q", kind)
	}
}
