package model

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Persisted state may come from older or newer versions of the app. Each record
// type keeps the JSON keys it does not know about in Extra and writes them back
// out unchanged, so a load/save cycle never drops data.

type (
	stateJSON     State
	settingsJSON  Settings
	messagesJSON  Messages
	volunteerJSON Volunteer
	weekJSON      Week
	inviteJSON    Invite
)

func (s *State) UnmarshalJSON(data []byte) error {
	// Decode on top of the current value so missing keys keep their defaults
	aux := stateJSON(*s)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	extra, err := unknownFields(data, reflect.TypeOf(aux))
	if err != nil {
		return err
	}
	if aux.Volunteers == nil {
		aux.Volunteers = []Volunteer{}
	}
	if aux.Weeks == nil {
		aux.Weeks = []Week{}
	}
	*s = State(aux)
	s.Extra = extra
	return nil
}

func (s State) MarshalJSON() ([]byte, error) {
	return withExtras(stateJSON(s), s.Extra)
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	aux := settingsJSON(*s)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	extra, err := unknownFields(data, reflect.TypeOf(aux))
	if err != nil {
		return err
	}
	*s = Settings(aux)
	s.Extra = extra
	return nil
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return withExtras(settingsJSON(s), s.Extra)
}

func (m *Messages) UnmarshalJSON(data []byte) error {
	aux := messagesJSON(*m)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	extra, err := unknownFields(data, reflect.TypeOf(aux))
	if err != nil {
		return err
	}
	*m = Messages(aux)
	m.Extra = extra
	return nil
}

func (m Messages) MarshalJSON() ([]byte, error) {
	return withExtras(messagesJSON(m), m.Extra)
}

func (v *Volunteer) UnmarshalJSON(data []byte) error {
	var aux volunteerJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	extra, err := unknownFields(data, reflect.TypeOf(aux))
	if err != nil {
		return err
	}
	*v = Volunteer(aux)
	v.Extra = extra
	return nil
}

func (v Volunteer) MarshalJSON() ([]byte, error) {
	return withExtras(volunteerJSON(v), v.Extra)
}

func (w *Week) UnmarshalJSON(data []byte) error {
	var aux weekJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	extra, err := unknownFields(data, reflect.TypeOf(aux))
	if err != nil {
		return err
	}
	if aux.Invites == nil {
		aux.Invites = []Invite{}
	}
	*w = Week(aux)
	w.Extra = extra
	return nil
}

func (w Week) MarshalJSON() ([]byte, error) {
	return withExtras(weekJSON(w), w.Extra)
}

func (inv *Invite) UnmarshalJSON(data []byte) error {
	var aux inviteJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	extra, err := unknownFields(data, reflect.TypeOf(aux))
	if err != nil {
		return err
	}
	if aux.Status == "" {
		aux.Status = StatusNotInvited
	}
	*inv = Invite(aux)
	inv.Extra = extra
	return nil
}

func (inv Invite) MarshalJSON() ([]byte, error) {
	return withExtras(inviteJSON(inv), inv.Extra)
}

// unknownFields returns the top-level keys of the JSON object in data that do not
// map to a field of struct type t
func unknownFields(data []byte, t reflect.Type) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	known := knownKeys(t)
	var extra map[string]json.RawMessage
	for key, value := range raw {
		if known[key] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key] = value
	}
	return extra, nil
}

// knownKeys lists the JSON keys declared by the struct's field tags
func knownKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}
		keys[name] = true
	}
	return keys
}

// withExtras marshals v and merges extra keys into the resulting object.
// Declared fields win over extras with the same key.
func withExtras(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, exists := obj[key]; !exists {
			obj[key] = value
		}
	}
	return json.Marshal(obj)
}
