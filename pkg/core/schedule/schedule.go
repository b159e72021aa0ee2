package schedule

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// Options configures when the meeting happens
type Options struct {
	// Rule is an RFC 5545 RRULE, e.g. "FREQ=WEEKLY;BYDAY=FR"
	Rule string

	// TimeZone is an IANA zone name; the meeting day is judged in this zone
	TimeZone string

	// Anchor fixes the phase of rules with INTERVAL > 1. Optional.
	Anchor model.Date

	// FinalizeStartHour and FinalizeEndHour bound the nudge window on meeting day, [start, end)
	FinalizeStartHour int
	FinalizeEndHour   int
}

// Schedule answers "which meeting is next" for the coordinator
type Schedule struct {
	rule          *rrule.RRule
	loc           *time.Location
	finalizeStart int
	finalizeEnd   int
}

// New parses and checks the options
func New(opts Options) (*Schedule, error) {
	option, err := rrule.StrToROption(opts.Rule)
	if err != nil {
		return nil, fmt.Errorf("invalid meeting schedule %q: %w", opts.Rule, err)
	}

	loc := time.Local
	if opts.TimeZone != "" {
		loc, err = time.LoadLocation(opts.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid time zone %q: %w", opts.TimeZone, err)
		}
	}

	s := &Schedule{
		loc:           loc,
		finalizeStart: opts.FinalizeStartHour,
		finalizeEnd:   opts.FinalizeEndHour,
	}

	option.Dtstart = scheduleEpoch(loc)
	if !opts.Anchor.IsZero() {
		anchor, err := opts.Anchor.Time()
		if err != nil {
			return nil, fmt.Errorf("invalid schedule anchor: %w", err)
		}
		option.Dtstart = midnight(anchor, loc)
	}

	s.rule, err = rrule.NewRRule(*option)
	if err != nil {
		return nil, fmt.Errorf("invalid meeting schedule %q: %w", opts.Rule, err)
	}

	return s, nil
}

// Location is the meeting time zone
func (s *Schedule) Location() *time.Location {
	return s.loc
}

// scheduleEpoch starts unanchored rules. A fixed start keeps the phase of
// INTERVAL rules stable between calls.
func scheduleEpoch(loc *time.Location) time.Time {
	return time.Date(2000, time.January, 1, 0, 0, 0, 0, loc)
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// NextMeetingDate returns the date of the first meeting on or after now's
// calendar day in the meeting time zone. Returns an unset date if the rule has
// no further occurrences.
func (s *Schedule) NextMeetingDate(now time.Time) model.Date {
	today := midnight(now.In(s.loc), s.loc)

	next := s.rule.After(today, true)
	if next.IsZero() {
		return ""
	}
	return model.DateOf(next.In(s.loc))
}

// IsMeetingDay reports whether now falls on a meeting date in the meeting time zone
func (s *Schedule) IsMeetingDay(now time.Time) bool {
	return s.NextMeetingDate(now) == model.DateOf(now.In(s.loc))
}

// InFinalizeWindow reports whether now is on meeting day within the hours the
// coordinator should be nudged to finalize
func (s *Schedule) InFinalizeWindow(now time.Time) bool {
	if !s.IsMeetingDay(now) {
		return false
	}
	hour := now.In(s.loc).Hour()
	return hour >= s.finalizeStart && hour < s.finalizeEnd
}
