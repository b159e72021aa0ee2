package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"
)

// CurrentVersion is the state/backup format version
const CurrentVersion = 1

type Role string

const (
	RoleVolunteer         Role = "Volunteer"
	RoleChairperson       Role = "Chairperson"
	RoleAltChairperson    Role = "Alt Chairperson"
	RoleListCoordinator   Role = "List Coordinator"
	RoleMeetingSteward    Role = "Meeting Steward"
	RoleDiscussionLead    Role = "Discussion Group Lead"
	RoleAltDiscussionLead Role = "Alt Discussion Lead"
	RoleBigBookLead       Role = "Big Book Lead"
	RoleAltBigBookLead    Role = "Alt Big Book Lead"
)

// Roles lists every known role in display priority order
var Roles = []Role{
	RoleChairperson,
	RoleAltChairperson,
	RoleListCoordinator,
	RoleMeetingSteward,
	RoleDiscussionLead,
	RoleAltDiscussionLead,
	RoleBigBookLead,
	RoleAltBigBookLead,
	RoleVolunteer,
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	return RoleRank(r) < len(Roles)
}

// ParseRole matches a role name case-insensitively
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleVolunteer, nil
	}
	for _, known := range Roles {
		if strings.EqualFold(string(known), s) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RoleRank returns the display priority of a role (unknown roles sort last)
func RoleRank(r Role) int {
	for i, known := range Roles {
		if known == r {
			return i
		}
	}
	return len(Roles)
}

type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
)

// Cadences lists the recognised invite cadences from most to least frequent
var Cadences = []Cadence{CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceQuarterly, CadenceYearly}

// ParseCadence normalises s (case-insensitive, trimmed) and reports whether it is recognised
func ParseCadence(s string) (Cadence, bool) {
	c := Cadence(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Cadences {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Status is the response lifecycle state of an invite
type Status string

const (
	StatusNotInvited Status = "Not Invited"
	StatusInvited    Status = "Invited"
	StatusConfirmed  Status = "Confirmed"
	StatusDeclined   Status = "Declined"
	StatusNoResponse Status = "No Response"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusNotInvited, StatusInvited, StatusConfirmed, StatusDeclined, StatusNoResponse}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order returns the display position of the status
func (s Status) Order() int {
	for i, known := range Statuses {
		if s == known {
			return i
		}
	}
	return len(Statuses)
}

// ParseStatus accepts the stored label or a loose form of it ("confirmed", "no-response", "not_invited")
func ParseStatus(s string) (Status, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if strings.ReplaceAll(strings.ToLower(string(known)), " ", "") == key {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// UnmarshalJSON rejects unknown status labels so they never enter the state
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Volunteer is a member of the registry
type Volunteer struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Phone             string  `json:"phone"`
	CoreRole          Role    `json:"coreRole"`
	InviteCadence     Cadence `json:"inviteCadence"`
	Active            bool    `json:"active"`
	FirstTime         bool    `json:"firstTime"`
	LastInvitedAt     Date    `json:"lastInvitedAt"`
	LastConfirmedDate Date    `json:"lastConfirmedDate"`
	LastDeclinedDate  Date    `json:"lastDeclinedDate"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Role returns the volunteer's role, defaulting to the generic volunteer role
func (v Volunteer) Role() Role {
	if v.CoreRole == "" {
		return RoleVolunteer
	}
	return v.CoreRole
}

// Invite is one volunteer's place on a week's list
type Invite struct {
	ID             string     `json:"id"`
	VolunteerID    string     `json:"volunteerId"`
	Status         Status     `json:"status"`
	InviteSentAt   *time.Time `json:"inviteSentAt"`
	FollowUpSentAt *time.Time `json:"followUpSentAt"`
	ResponseAt     *time.Time `json:"responseAt"`
	CreatedAt      *time.Time `json:"createdAt"`
	AutoAdded      bool       `json:"autoAdded"`
	AutoAddedAt    *time.Time `json:"autoAddedAt"`

	PrevLastInvitedAt     Snapshot `json:"prevLastInvitedAt,omitzero"`
	PrevLastConfirmedDate Snapshot `json:"prevLastConfirmedDate,omitzero"`
	PrevLastDeclinedDate  Snapshot `json:"prevLastDeclinedDate,omitzero"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Week is the invite list for one meeting date
type Week struct {
	ID          string   `json:"id"`
	Date        Date     `json:"date"`
	NeededCount int      `json:"neededCount"`
	Finalized   bool     `json:"finalized"`
	Invites     []Invite `json:"invites"`

	Extra map[string]json.RawMessage `json:"-"`
}

// InviteIndex returns the position of the volunteer's invite, or -1
func (w *Week) InviteIndex(volunteerID string) int {
	for i := range w.Invites {
		if w.Invites[i].VolunteerID == volunteerID {
			return i
		}
	}
	return -1
}

// HasVolunteer reports whether the volunteer is already on this week
func (w *Week) HasVolunteer(volunteerID string) bool {
	return w.InviteIndex(volunteerID) >= 0
}

// CountByStatus counts invites in the given status
func (w *Week) CountByStatus(status Status) int {
	count := 0
	for _, inv := range w.Invites {
		if inv.Status == status {
			count++
		}
	}
	return count
}

// Messages holds the text templates used to draft messages. "[Name]" is replaced
// by the volunteer's name.
type Messages struct {
	Invite            string `json:"invite"`
	FollowUp          string `json:"followUp"`
	Reminder          string `json:"reminder"`
	FirstTime         string `json:"firstTime"`
	InviteFirstTime   string `json:"inviteFirstTime,omitempty"`
	FollowUpFirstTime string `json:"followUpFirstTime,omitempty"`
	ReminderFirstTime string `json:"reminderFirstTime,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Settings are the persisted meeting settings
type Settings struct {
	MeetingName        string   `json:"meetingName"`
	MeetingDay         string   `json:"meetingDay"`
	MeetingStartTime   string   `json:"meetingStartTime"`
	MeetingArriveTime  string   `json:"meetingArriveTime"`
	MinConfirmed       int      `json:"minConfirmed"`
	PreferredConfirmed int      `json:"preferredConfirmed"`
	MaxVolunteers      int      `json:"maxVolunteers"`
	Mission            string   `json:"mission"`
	Messages           Messages `json:"messages"`

	Extra map[string]json.RawMessage `json:"-"`
}

// State is the whole application state: registry, weeks and settings
type State struct {
	Version    int         `json:"version"`
	Settings   Settings    `json:"settings"`
	Volunteers []Volunteer `json:"volunteers"`
	Weeks      []Week      `json:"weeks"`

	Extra map[string]json.RawMessage `json:"-"`
}

// NewState returns an empty state seeded with the given settings
func NewState(settings Settings) *State {
	return &State{
		Version:    CurrentVersion,
		Settings:   settings.Clone(),
		Volunteers: []Volunteer{},
		Weeks:      []Week{},
	}
}

// VolunteerIndex returns the position of the volunteer in the registry, or -1
func (s *State) VolunteerIndex(id string) int {
	for i := range s.Volunteers {
		if s.Volunteers[i].ID == id {
			return i
		}
	}
	return -1
}

// Volunteer returns a pointer into the registry, or nil
func (s *State) Volunteer(id string) *Volunteer {
	if i := s.VolunteerIndex(id); i >= 0 {
		return &s.Volunteers[i]
	}
	return nil
}

// WeekIndex returns the position of the week, or -1
func (s *State) WeekIndex(id string) int {
	for i := range s.Weeks {
		if s.Weeks[i].ID == id {
			return i
		}
	}
	return -1
}

// WeekByDate returns the week for the given meeting date, or nil
func (s *State) WeekByDate(date Date) *Week {
	for i := range s.Weeks {
		if s.Weeks[i].Date == date {
			return &s.Weeks[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the state. Engine operations work on clones so a
// caller's snapshot is never modified.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{
		Version:    s.Version,
		Settings:   s.Settings.Clone(),
		Volunteers: make([]Volunteer, len(s.Volunteers)),
		Weeks:      make([]Week, len(s.Weeks)),
		Extra:      maps.Clone(s.Extra),
	}
	for i, v := range s.Volunteers {
		v.Extra = maps.Clone(v.Extra)
		out.Volunteers[i] = v
	}
	for i, w := range s.Weeks {
		out.Weeks[i] = w.Clone()
	}
	return out
}

// Clone returns a deep copy of the settings
func (s Settings) Clone() Settings {
	s.Extra = maps.Clone(s.Extra)
	s.Messages.Extra = maps.Clone(s.Messages.Extra)
	return s
}

// Clone returns a deep copy of the week
func (w Week) Clone() Week {
	invites := make([]Invite, len(w.Invites))
	for i, inv := range w.Invites {
		invites[i] = inv.Clone()
	}
	w.Invites = invites
	w.Extra = maps.Clone(w.Extra)
	return w
}

// Clone returns a deep copy of the invite
func (inv Invite) Clone() Invite {
	inv.InviteSentAt = cloneTime(inv.InviteSentAt)
	inv.FollowUpSentAt = cloneTime(inv.FollowUpSentAt)
	inv.ResponseAt = cloneTime(inv.ResponseAt)
	inv.CreatedAt = cloneTime(inv.CreatedAt)
	inv.AutoAddedAt = cloneTime(inv.AutoAddedAt)
	inv.Extra = maps.Clone(inv.Extra)
	return inv
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// MessageKind is the kind of message sent to an invitee
type MessageKind string

const (
	KindInvite   MessageKind = "invite"
	KindFollowUp MessageKind = "followUp"
	KindReminder MessageKind = "reminder"
)

// MessageKinds lists the kinds in the order they are sent during a week
var MessageKinds = []MessageKind{KindInvite, KindFollowUp, KindReminder}

// ParseMessageKind accepts a kind case-insensitively ("follow-up" and "followup" both work)
func ParseMessageKind(s string) (MessageKind, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range MessageKinds {
		if strings.ToLower(string(known)) == key {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown message kind %q", s)
}
