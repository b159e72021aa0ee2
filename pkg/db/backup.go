package db

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// BackupFileName is the suggested name for a backup taken on date
func BackupFileName(date model.Date) string {
	return fmt.Sprintf("gateway-to-service-backup-%s.json", date)
}

// backupEnvelope is the minimum shape a backup must have before it may replace
// the current state
type backupEnvelope struct {
	Version    *int                `json:"version" validate:"required,eq=1"`
	Settings   *settingsEnvelope   `json:"settings" validate:"required"`
	Volunteers []volunteerEnvelope `json:"volunteers" validate:"required,dive"`
	Weeks      []weekEnvelope      `json:"weeks" validate:"required,dive"`
}

type settingsEnvelope struct {
	Messages map[string]any `json:"messages" validate:"required"`
}

type volunteerEnvelope struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type weekEnvelope struct {
	ID      string           `json:"id" validate:"required"`
	Date    string           `json:"date" validate:"required,datetime=2006-01-02"`
	Invites []inviteEnvelope `json:"invites" validate:"dive"`
}

type inviteEnvelope struct {
	ID          string `json:"id" validate:"required"`
	VolunteerID string `json:"volunteerId" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Export serialises the state as a versioned backup
func Export(state *model.State) ([]byte, error) {
	return EncodeState(state)
}

// Import checks a backup and decodes it into a full state. Settings missing
// from the backup are taken from base. The current state is only replaced by
// the caller once this succeeds.
func Import(data []byte, base *model.State) (*model.State, error) {
	var envelope backupEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("backup is not valid JSON: %w", err)
	}
	if err := validate.Struct(envelope); err != nil {
		return nil, fmt.Errorf("backup validation failed: %w", err)
	}

	state, err := DecodeState(data, base)
	if err != nil {
		return nil, fmt.Errorf("backup could not be read: %w", err)
	}
	return state, nil
}
