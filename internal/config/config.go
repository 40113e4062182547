// Package config loads and validates the triaia configuration from file and
// environment via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/signal"
)

// Config represents the full triaia configuration.
type Config struct {
	Plan      PlanConfig      `mapstructure:"plan"`
	Couplings CouplingsConfig `mapstructure:"couplings"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Cloud     CloudConfig     `mapstructure:"cloud"`
	Assistant AssistantConfig `mapstructure:"assistant"`
}

// PlanConfig points at the plan definition and optional overrides.
type PlanConfig struct {
	// File is the YAML plan definition loaded by check and watch.
	File string `mapstructure:"file"`
	// Regime and Mode override the file's values when set.
	Regime string `mapstructure:"regime"`
	Mode   string `mapstructure:"mode"`
}

// CouplingsConfig enables and configures the coupling signals.
type CouplingsConfig struct {
	Geo     GeoConfig     `mapstructure:"geo"`
	Weather WeatherConfig `mapstructure:"weather"`
	Planner PlannerConfig `mapstructure:"planner"`
}

// GeoConfig carries the externally-reported geospatial status. The position
// transport itself lives outside the monitor; only its status is consumed.
type GeoConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Status  string `mapstructure:"status"`
}

// WeatherConfig carries the externally-reported weather status.
type WeatherConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Status  string `mapstructure:"status"`
	Risk    string `mapstructure:"risk"`
}

// PlannerConfig configures the polled planner adapter.
type PlannerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Provider selects the registered adapter ("todoist", "icalfeed").
	Provider string `mapstructure:"provider"`
	// Token authenticates API providers. A secret:// value is resolved
	// through Secret Manager.
	Token string `mapstructure:"token"`
	// JWTIssuer and PrivateKeyFile select service-token auth: short-lived
	// RS256 assertions are minted per fetch instead of sending a static
	// token. Token is ignored when both are set.
	JWTIssuer      string `mapstructure:"jwt_issuer"`
	PrivateKeyFile string `mapstructure:"private_key_file"`
	// BaseURL overrides the provider API endpoint, mainly for tests.
	BaseURL string `mapstructure:"base_url"`
	// FeedURL is the calendar feed address for the icalfeed provider.
	FeedURL string `mapstructure:"feed_url"`
	// IntervalMinutes is the polling cadence.
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// MonitorConfig contains evaluation loop settings.
type MonitorConfig struct {
	// CheckIntervalMinutes is the cadence of stability evaluations.
	CheckIntervalMinutes int `mapstructure:"check_interval_minutes"`
	// EventsDir is where the JSONL event stream is written.
	EventsDir string `mapstructure:"events_dir"`
}

// CloudConfig contains the optional GCP integration settings.
type CloudConfig struct {
	// Project enables Cloud Logging and Secret Manager when set.
	Project string `mapstructure:"project"`
}

// AssistantConfig configures the optional language model collaborator.
type AssistantConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	ServerURL string `mapstructure:"server_url"`
	APIKey    string `mapstructure:"api_key"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults sets default values for unset fields.
func applyDefaults(cfg *Config) {
	if cfg.Couplings.Geo.Status == "" {
		cfg.Couplings.Geo.Status = string(signal.GeoDisabled)
	}
	if cfg.Couplings.Weather.Status == "" {
		cfg.Couplings.Weather.Status = string(signal.WeatherDisabled)
	}
	if cfg.Couplings.Weather.Risk == "" {
		cfg.Couplings.Weather.Risk = string(signal.RiskLow)
	}

	if cfg.Couplings.Planner.Provider == "" {
		cfg.Couplings.Planner.Provider = "todoist"
	}
	if cfg.Couplings.Planner.IntervalMinutes == 0 {
		cfg.Couplings.Planner.IntervalMinutes = 5
	}

	if cfg.Monitor.CheckIntervalMinutes == 0 {
		cfg.Monitor.CheckIntervalMinutes = 5
	}
	if cfg.Monitor.EventsDir == "" {
		cfg.Monitor.EventsDir = "."
	}

	if cfg.Assistant.Provider == "" {
		cfg.Assistant.Provider = "ollama"
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = "llama3"
	}
	if cfg.Assistant.Provider == "ollama" && cfg.Assistant.ServerURL == "" {
		cfg.Assistant.ServerURL = "http://localhost:11434"
	}
}

var validGeoStatuses = map[string]bool{
	string(signal.GeoDisabled):          true,
	string(signal.GeoPermissionPending): true,
	string(signal.GeoLockedMoving):      true,
	string(signal.GeoLockedStationary):  true,
	string(signal.GeoDenied):            true,
	string(signal.GeoError):             true,
	string(signal.GeoUnsupported):       true,
}

var validWeatherStatuses = map[string]bool{
	string(signal.WeatherDisabled): true,
	string(signal.WeatherLoading):  true,
	string(signal.WeatherReady):    true,
	string(signal.WeatherError):    true,
}

var validWeatherRisks = map[string]bool{
	string(signal.RiskLow):      true,
	string(signal.RiskModerate): true,
	string(signal.RiskHigh):     true,
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Plan.Regime != "" {
		if _, err := plan.ParseRegime(c.Plan.Regime); err != nil {
			return fmt.Errorf("invalid plan regime: %w", err)
		}
	}
	if c.Plan.Mode != "" {
		if _, err := plan.ParseMode(c.Plan.Mode); err != nil {
			return fmt.Errorf("invalid plan mode: %w", err)
		}
	}

	if !validGeoStatuses[c.Couplings.Geo.Status] {
		return fmt.Errorf("invalid geo status: %s", c.Couplings.Geo.Status)
	}
	if !validWeatherStatuses[c.Couplings.Weather.Status] {
		return fmt.Errorf("invalid weather status: %s", c.Couplings.Weather.Status)
	}
	if !validWeatherRisks[c.Couplings.Weather.Risk] {
		return fmt.Errorf("invalid weather risk: %s", c.Couplings.Weather.Risk)
	}

	// An unknown planner provider is not rejected here: the monitor routes
	// it to a failing adapter and the decay policy reports it as a degraded
	// signal on every check.
	if c.Couplings.Planner.IntervalMinutes < 1 {
		return fmt.Errorf("planner interval must be at least 1 minute")
	}

	if c.Monitor.CheckIntervalMinutes < 1 {
		return fmt.Errorf("check interval must be at least 1 minute")
	}

	return nil
}

// ValidateForActivate performs the additional validation required before
// activating and monitoring a plan.
func (c *Config) ValidateForActivate() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Plan.File == "" {
		return fmt.Errorf("plan file is required")
	}

	if c.Couplings.Planner.Enabled {
		switch c.Couplings.Planner.Provider {
		case "icalfeed":
			if c.Couplings.Planner.FeedURL == "" {
				return fmt.Errorf("planner feed_url is required for the icalfeed provider")
			}
		case "todoist":
			hasJWT := c.Couplings.Planner.JWTIssuer != "" && c.Couplings.Planner.PrivateKeyFile != ""
			if c.Couplings.Planner.Token == "" && !hasJWT {
				return fmt.Errorf("planner token or jwt_issuer plus private_key_file is required for the todoist provider")
			}
		}
	}

	if c.Assistant.Enabled && c.Assistant.Provider == "openai" && c.Assistant.APIKey == "" {
		return fmt.Errorf("assistant api_key is required for the openai provider")
	}

	return nil
}
