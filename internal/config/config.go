package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/rotation"
	"github.com/jakechorley/gateway-to-service/pkg/core/schedule"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"

	stateDirName  = ".gateway-to-service"
	stateFileName = "state.json"

	defaultFinalizeStartHour = 12
	defaultFinalizeEndHour   = 19
)

// Config is the coordinator configuration read from gts_config.yaml
type Config struct {
	Meeting        MeetingConfig  `yaml:"meeting"`
	Capacity       CapacityConfig `yaml:"capacity"`
	DefaultCadence string         `yaml:"defaultCadence" validate:"omitempty,oneof=weekly biweekly monthly quarterly yearly"`
	PinnedRoles    []string       `yaml:"pinnedRoles" validate:"dive,required"`
	AlternateRoles []string       `yaml:"alternateRoles" validate:"dive,required"`
	Storage        StorageConfig  `yaml:"storage"`
	Roster         *RosterConfig  `yaml:"roster"`
	Gmail          *GmailConfig   `yaml:"gmail"`
}

// MeetingConfig describes when the meeting happens. The display fields seed
// the settings of a fresh install.
type MeetingConfig struct {
	Name           string          `yaml:"name"`
	Day            string          `yaml:"day"`
	StartTime      string          `yaml:"startTime"`
	ArriveTime     string          `yaml:"arriveTime"`
	Schedule       string          `yaml:"schedule" validate:"required"`
	TimeZone       string          `yaml:"timeZone" validate:"required"`
	Anchor         string          `yaml:"anchor" validate:"omitempty,datetime=2006-01-02"`
	FinalizeWindow *FinalizeWindow `yaml:"finalizeWindow"`
}

// FinalizeWindow is the range of hours on meeting day, [startHour, endHour),
// in which an unfinalized week is flagged
type FinalizeWindow struct {
	StartHour int `yaml:"startHour" validate:"min=0,max=23"`
	EndHour   int `yaml:"endHour" validate:"min=1,max=24,gtfield=StartHour"`
}

// CapacityConfig overrides the default staffing targets. Zero means "use the default".
type CapacityConfig struct {
	MinConfirmed       int `yaml:"minConfirmed" validate:"min=0"`
	PreferredConfirmed int `yaml:"preferredConfirmed" validate:"min=0"`
	MaxVolunteers      int `yaml:"maxVolunteers" validate:"min=0"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend" validate:"omitempty,oneof=file postgres"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"databaseURL" validate:"required_if=Backend postgres"`
}

// RosterConfig points at the Google Sheet the volunteer roster is synced from
type RosterConfig struct {
	SheetID string `yaml:"sheetID" validate:"required"`
	Tab     string `yaml:"tab" validate:"required"`
}

type GmailConfig struct {
	UserID       string `yaml:"userID"`
	Sender       string `yaml:"sender" validate:"omitempty,email"`
	HandoffEmail string `yaml:"handoffEmail" validate:"required,email"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load finds and loads the config file for env
// An empty env loads gts_config.yaml, otherwise gts_config.<env>.yaml
func Load(env string) (*Config, error) {
	path, err := findConfigFile(configFileName(env))
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

func configFileName(env string) string {
	if env == "" {
		return "gts_config.yaml"
	}
	return fmt.Sprintf("gts_config.%s.yaml", env)
}

// LoadFromPath loads and validates the config at path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and then the fields tags cannot express
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.Meeting.Schedule); err != nil {
		return fmt.Errorf("invalid rrule %q: %w", cfg.Meeting.Schedule, err)
	}

	if _, err := time.LoadLocation(cfg.Meeting.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", cfg.Meeting.TimeZone, err)
	}

	for _, name := range append(append([]string{}, cfg.PinnedRoles...), cfg.AlternateRoles...) {
		if _, err := model.ParseRole(name); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	settings := cfg.Settings(model.DefaultSettings())
	if settings.MinConfirmed > settings.PreferredConfirmed || settings.PreferredConfirmed > settings.MaxVolunteers {
		return fmt.Errorf("config validation failed: capacity must satisfy minConfirmed (%d) <= preferredConfirmed (%d) <= maxVolunteers (%d)",
			settings.MinConfirmed, settings.PreferredConfirmed, settings.MaxVolunteers)
	}

	return nil
}

// RotationPolicy builds the rotation policy. Roles not listed fall back to the
// standard pinned and alternate roles.
func (c *Config) RotationPolicy() rotation.Policy {
	policy := rotation.DefaultPolicy()
	if len(c.PinnedRoles) > 0 {
		policy.PinnedRoles = parseRoles(c.PinnedRoles)
	}
	if len(c.AlternateRoles) > 0 {
		policy.AlternateRoles = parseRoles(c.AlternateRoles)
	}
	if cadence, ok := model.ParseCadence(c.DefaultCadence); ok {
		policy.DefaultCadence = cadence
	}
	return policy
}

func parseRoles(names []string) []model.Role {
	roles := make([]model.Role, 0, len(names))
	for _, name := range names {
		if role, err := model.ParseRole(name); err == nil {
			roles = append(roles, role)
		}
	}
	return roles
}

// ScheduleOptions returns the meeting schedule options
func (c *Config) ScheduleOptions() schedule.Options {
	window := FinalizeWindow{StartHour: defaultFinalizeStartHour, EndHour: defaultFinalizeEndHour}
	if c.Meeting.FinalizeWindow != nil {
		window = *c.Meeting.FinalizeWindow
	}
	return schedule.Options{
		Rule:              c.Meeting.Schedule,
		TimeZone:          c.Meeting.TimeZone,
		Anchor:            model.NormalizeDate(c.Meeting.Anchor),
		FinalizeStartHour: window.StartHour,
		FinalizeEndHour:   window.EndHour,
	}
}

// Settings overlays the configured meeting details and capacity on base
func (c *Config) Settings(base model.Settings) model.Settings {
	s := base.Clone()
	setString(&s.MeetingName, c.Meeting.Name)
	setString(&s.MeetingDay, c.Meeting.Day)
	setString(&s.MeetingStartTime, c.Meeting.StartTime)
	setString(&s.MeetingArriveTime, c.Meeting.ArriveTime)
	setInt(&s.MinConfirmed, c.Capacity.MinConfirmed)
	setInt(&s.PreferredConfirmed, c.Capacity.PreferredConfirmed)
	setInt(&s.MaxVolunteers, c.Capacity.MaxVolunteers)
	return s
}

// DefaultState is the state of a fresh install under this config
func (c *Config) DefaultState() *model.State {
	return model.NewState(c.Settings(model.DefaultSettings()))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// StorageBackend returns the configured backend, defaulting to the JSON file store
func (c *Config) StorageBackend() string {
	if c.Storage.Backend == "" {
		return StorageFile
	}
	return c.Storage.Backend
}

// StatePath returns the state file path, defaulting to ~/.gateway-to-service/state.json
func (c *Config) StatePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, stateDirName, stateFileName), nil
}

// findConfigFile looks for name in the current directory, then the home directory
func findConfigFile(name string) (string, error) {
	candidates := []string{name}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, name))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to check config file %s: %w", path, err)
		}
	}

	return "", fmt.Errorf("config file %s not found in current or home directory", name)
}
