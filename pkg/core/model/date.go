package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the fixed-width calendar date format used for every date-only field
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. The empty Date means "no date" and
// is stored as JSON null. Because the layout is fixed-width, dates compare correctly
// as plain strings.
type Date string

// NormalizeDate trims a date or timestamp string down to its date part.
// Values shorter than a full date are treated as missing.
func NormalizeDate(s string) Date {
	s = strings.TrimSpace(s)
	if len(s) < len(DateLayout) {
		return ""
	}
	return Date(s[:len(DateLayout)])
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate parses and validates a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date(s), nil
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d == ""
}

// String returns the date in YYYY-MM-DD form
func (d Date) String() string {
	return string(d)
}

// Time returns midnight UTC on the date
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// AddDays returns the date n days later. An unset or unparseable date yields an unset date.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return ""
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	return d < other
}

// MaxDate returns the latest of the given dates, ignoring unset ones
func MaxDate(dates ...Date) Date {
	var latest Date
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if latest.IsZero() || d > latest {
			latest = d
		}
	}
	return latest
}

// MarshalJSON writes an unset date as null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts null, a date, or a full timestamp (trimmed to its date)
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	*d = NormalizeDate(s)
	return nil
}

// Snapshot holds the value a volunteer touch field had before an invite first
// overwrote it. Captured distinguishes "never captured" from "captured an unset date".
type Snapshot struct {
	Captured bool
	Value    Date
}

// Capture records value as a snapshot
func Capture(value Date) Snapshot {
	return Snapshot{Captured: true, Value: value}
}

// IsZero reports whether nothing has been captured
func (s Snapshot) IsZero() bool {
	return !s.Captured
}

// MarshalJSON writes the captured value; an uncaptured snapshot is omitted by its
// owning field's omitzero tag.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return s.Value.MarshalJSON()
}

// UnmarshalJSON marks the snapshot as captured whenever the key is present, even as null
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var d Date
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = Capture(d)
	return nil
}
