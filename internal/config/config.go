// Package config holds every tunable of the schedule pipeline in one
// explicit structure. Defaults match the Boise venue; a YAML file can
// override any field for alternate venues or time zones.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all pipeline settings.
type Config struct {
	// ScheduleBaseURL is the markup source; the team id is appended as the
	// final path segment.
	ScheduleBaseURL string `yaml:"schedule_base_url"`
	// APIBaseURL is the structured JSON source; the team id is appended as
	// the final path segment.
	APIBaseURL string `yaml:"api_base_url"`

	// Timezone is the IANA zone games are scheduled and displayed in.
	Timezone string `yaml:"timezone"`
	// FixedUTCOffsetHours is applied to Z-suffixed API timestamps. The
	// upstream writes venue-local times with a bogus Z suffix, so these are
	// re-expressed at this fixed offset rather than converted with daylight
	// rules.
	FixedUTCOffsetHours int `yaml:"fixed_utc_offset_hours"`

	VenueName    string `yaml:"venue_name"`
	VenueAddress string `yaml:"venue_address"`

	GameDurationMinutes int    `yaml:"game_duration_minutes"`
	ReminderLeadMinutes int    `yaml:"reminder_lead_minutes"`
	ReminderText        string `yaml:"reminder_text"`

	// SpecialTeams get the alternate summary and description copy.
	SpecialTeams       []string `yaml:"special_teams"`
	SpecialSummaryTag  string   `yaml:"special_summary_tag"`
	SpecialDescription string   `yaml:"special_description"`

	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	FetchRetries        int `yaml:"fetch_retries"`

	ProductID string `yaml:"product_id"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ScheduleBaseURL:     "https://www.letsplaysoccer.com/4/teamSchedule",
		APIBaseURL:          "https://www.letsplaysoccer.com/api/teamSchedule",
		Timezone:            "America/Denver",
		FixedUTCOffsetHours: -7,
		VenueName:           "Let's Play Soccer",
		VenueAddress:        "Let's Play Soccer, Boise, 11448 W President Dr #8967, Boise, ID 83713, USA",
		GameDurationMinutes: 45,
		ReminderLeadMinutes: 40,
		ReminderText:        "Soccer game in 40 minutes!",
		SpecialTeams:        []string{"Net Six and Chill", "Shin Splints United"},
		SpecialSummaryTag:   "Special Event: ",
		SpecialDescription:  "Grudge match alert! Bring your loudest fans.",
		FetchTimeoutSeconds: 10,
		FetchRetries:        2,
		ProductID:           "-//Soccer Cal//soccer-cal//EN",
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally usable.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.GameDurationMinutes <= 0 {
		return fmt.Errorf("game_duration_minutes must be positive, got %d", c.GameDurationMinutes)
	}
	if c.ReminderLeadMinutes <= 0 {
		return fmt.Errorf("reminder_lead_minutes must be positive, got %d", c.ReminderLeadMinutes)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got %d", c.FetchTimeoutSeconds)
	}
	return nil
}

// Location returns the configured IANA location.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// FixedZone returns the fixed-offset zone used for Z-suffixed API timestamps.
func (c *Config) FixedZone() *time.Location {
	return time.FixedZone("MST", c.FixedUTCOffsetHours*3600)
}

// GameDuration returns the event duration.
func (c *Config) GameDuration() time.Duration {
	return time.Duration(c.GameDurationMinutes) * time.Minute
}

// ReminderLead returns how far before the start the reminder fires.
func (c *Config) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}

// FetchTimeout returns the per-request network timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// IsSpecialTeam reports whether name is on the special-teams list.
func (c *Config) IsSpecialTeam(name string) bool {
	for _, t := range c.SpecialTeams {
		if t == name {
			return true
		}
	}
	return false
}
