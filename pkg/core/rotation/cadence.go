package rotation

import (
	"slices"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// Cooldown lengths in days per cadence. A volunteer becomes eligible again
// this many days after their last touch.
var cooldownDays = map[model.Cadence]int{
	model.CadenceWeekly:    0,
	model.CadenceBiweekly:  7,
	model.CadenceMonthly:   21,
	model.CadenceQuarterly: 90,
	model.CadenceYearly:    364,
}

// DefaultPinnedRoles are the roles every week is built around, in build order
var DefaultPinnedRoles = []model.Role{
	model.RoleChairperson,
	model.RoleListCoordinator,
	model.RoleMeetingSteward,
	model.RoleDiscussionLead,
	model.RoleBigBookLead,
}

// DefaultAlternateRoles are cover roles for the pinned roles. They skip cadence
// cooldown but are not protected from overflow-trim.
var DefaultAlternateRoles = []model.Role{
	model.RoleAltChairperson,
	model.RoleAltDiscussionLead,
	model.RoleAltBigBookLead,
}

// Policy is the read-only rotation configuration
type Policy struct {
	// PinnedRoles are placed on every new week (in this order) and never auto-removed
	PinnedRoles []model.Role

	// AlternateRoles are exempt from cooldown like pinned roles
	AlternateRoles []model.Role

	// DefaultCadence applies to volunteers with no recognised cadence
	DefaultCadence model.Cadence
}

// DefaultPolicy returns the standard pinned roles with a monthly default cadence
func DefaultPolicy() Policy {
	return Policy{
		PinnedRoles:    DefaultPinnedRoles,
		AlternateRoles: DefaultAlternateRoles,
		DefaultCadence: model.CadenceMonthly,
	}
}

// IsPinned reports whether role is one of the pinned roles
func (p Policy) IsPinned(role model.Role) bool {
	return role != "" && slices.Contains(p.PinnedRoles, role)
}

// IsProtected reports whether overflow-trim must leave this volunteer alone
func (p Policy) IsProtected(v *model.Volunteer) bool {
	return v != nil && p.IsPinned(v.CoreRole)
}

// isCooldownExempt reports whether the role is never cadence-limited
func (p Policy) isCooldownExempt(role model.Role) bool {
	return p.IsPinned(role) || (role != "" && slices.Contains(p.AlternateRoles, role))
}

// ResolveCadence returns the volunteer's cadence, falling back to the default
// when it is unset or unrecognised
func (p Policy) ResolveCadence(v model.Volunteer) model.Cadence {
	if c, ok := model.ParseCadence(string(v.InviteCadence)); ok {
		return c
	}
	if c, ok := model.ParseCadence(string(p.DefaultCadence)); ok {
		return c
	}
	return model.CadenceMonthly
}

// CooldownDays returns how long the volunteer must rest after a touch.
// Pinned and alternate roles are always 0.
func (p Policy) CooldownDays(v model.Volunteer) int {
	if p.isCooldownExempt(v.CoreRole) {
		return 0
	}
	return cooldownDays[p.ResolveCadence(v)]
}

// LastTouch is the most recent of the volunteer's invited, confirmed and declined dates
func LastTouch(v model.Volunteer) model.Date {
	return model.MaxDate(v.LastInvitedAt, v.LastConfirmedDate, v.LastDeclinedDate)
}

// EligibleOn returns the earliest date the volunteer may be invited again, as
// seen from ref. Volunteers with no cooldown or no touch history are eligible on ref.
func (p Policy) EligibleOn(v model.Volunteer, ref model.Date) model.Date {
	cooldown := p.CooldownDays(v)
	if cooldown == 0 {
		return ref
	}

	lastTouch := LastTouch(v)
	if lastTouch.IsZero() {
		return ref
	}

	eligible := lastTouch.AddDays(cooldown)
	if eligible.IsZero() {
		// Unparseable history never blocks an invite
		return ref
	}
	return eligible
}

// IsEligible reports whether the volunteer may be invited for the meeting on ref
func (p Policy) IsEligible(v model.Volunteer, ref model.Date) bool {
	return !ref.Before(p.EligibleOn(v, ref))
}
