package rotation

import (
	"fmt"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// recentDeclineWeeks is how long a decline is flagged on the volunteer
const recentDeclineWeeks = 2

// SafetyNotes returns warnings worth showing before inviting the volunteer for
// the meeting on ref. They never block an invite.
func (p Policy) SafetyNotes(v model.Volunteer, ref model.Date) []string {
	var notes []string

	if !v.LastConfirmedDate.IsZero() && v.LastConfirmedDate == ref.AddDays(-7) {
		notes = append(notes, "Already served last week")
	}

	if !v.LastDeclinedDate.IsZero() {
		windowEnd := v.LastDeclinedDate.AddDays(7 * recentDeclineWeeks)
		if ref.Before(windowEnd) {
			notes = append(notes, fmt.Sprintf("Recently declined (%s)", v.LastDeclinedDate))
		}
	}

	if !p.IsEligible(v, ref) {
		notes = append(notes, fmt.Sprintf("Not due yet (%s)", p.ResolveCadence(v)))
	}

	return notes
}
