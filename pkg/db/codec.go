package db

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// ErrUnsupportedVersion is returned for state written by an incompatible version
var ErrUnsupportedVersion = errors.New("unsupported state version")

// DecodeState parses persisted state on top of base's settings, so settings
// missing from data keep base's values. base is not modified.
func DecodeState(data []byte, base *model.State) (*model.State, error) {
	state := base.Clone()
	if state == nil {
		state = model.DefaultState()
	}
	// Only settings are inherited from base. Version must come from the data.
	state.Version = 0
	state.Volunteers = []model.Volunteer{}
	state.Weeks = []model.Week{}
	state.Extra = nil

	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	if state.Version != model.CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, state.Version)
	}
	return state, nil
}

// EncodeState serialises the state as indented JSON
func EncodeState(state *model.State) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialise state: %w", err)
	}
	return data, nil
}
