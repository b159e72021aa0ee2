package messages

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// NamePlaceholder is replaced by the volunteer's name when a message is drafted
const NamePlaceholder = "[Name]"

// Draft is a message ready for the coordinator to send
type Draft struct {
	Kind        model.MessageKind
	VolunteerID string
	Name        string
	Phone       string
	Body        string

	// SMSLink opens the phone's messaging app with the body filled in
	SMSLink string
}

// Template picks the text for a kind of message. First-timers get the
// first-time variant for the kind when one is set; for invites the general
// first-time message is the next choice.
func Template(msgs model.Messages, kind model.MessageKind, v model.Volunteer) string {
	switch kind {
	case model.KindInvite:
		if v.FirstTime {
			if msgs.InviteFirstTime != "" {
				return msgs.InviteFirstTime
			}
			if msgs.FirstTime != "" {
				return msgs.FirstTime
			}
		}
		return msgs.Invite
	case model.KindFollowUp:
		if v.FirstTime && msgs.FollowUpFirstTime != "" {
			return msgs.FollowUpFirstTime
		}
		return msgs.FollowUp
	case model.KindReminder:
		if v.FirstTime && msgs.ReminderFirstTime != "" {
			return msgs.ReminderFirstTime
		}
		return msgs.Reminder
	default:
		return ""
	}
}

// Fill substitutes the volunteer's name into a template
func Fill(template, name string) string {
	return strings.ReplaceAll(template, NamePlaceholder, name)
}

// New drafts a message of the given kind for the volunteer
func New(settings model.Settings, kind model.MessageKind, v model.Volunteer, ios bool) (Draft, error) {
	template := Template(settings.Messages, kind, v)
	if strings.TrimSpace(template) == "" {
		return Draft{}, fmt.Errorf("no %s message is set up", kind)
	}

	body := Fill(template, v.Name)
	return Draft{
		Kind:        kind,
		VolunteerID: v.ID,
		Name:        v.Name,
		Phone:       v.Phone,
		Body:        body,
		SMSLink:     SMSLink(v.Phone, body, ios),
	}, nil
}

// NormalizePhone strips a phone number down to digits, keeping a leading "+"
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	if strings.HasPrefix(phone, "+") {
		b.WriteByte('+')
	}
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SMSLink builds an sms: URI. iOS expects "&body=" where other platforms use "?body=".
func SMSLink(phone, body string, ios bool) string {
	sep := "?"
	if ios {
		sep = "&"
	}
	encoded := strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
	return "sms:" + NormalizePhone(phone) + sep + "body=" + encoded
}
