package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Couplings.Geo.Status != "disabled" {
		t.Errorf("geo status default = %q, want disabled", cfg.Couplings.Geo.Status)
	}
	if cfg.Couplings.Weather.Status != "disabled" {
		t.Errorf("weather status default = %q, want disabled", cfg.Couplings.Weather.Status)
	}
	if cfg.Couplings.Planner.Provider != "todoist" {
		t.Errorf("planner provider default = %q, want todoist", cfg.Couplings.Planner.Provider)
	}
	if cfg.Couplings.Planner.IntervalMinutes != 5 {
		t.Errorf("planner interval default = %d, want 5", cfg.Couplings.Planner.IntervalMinutes)
	}
	if cfg.Monitor.CheckIntervalMinutes != 5 {
		t.Errorf("check interval default = %d, want 5", cfg.Monitor.CheckIntervalMinutes)
	}
	if cfg.Assistant.ServerURL != "http://localhost:11434" {
		t.Errorf("assistant server default = %q", cfg.Assistant.ServerURL)
	}
}

func TestDefaultsDoNotOverrideSetValues(t *testing.T) {
	cfg := &Config{}
	cfg.Couplings.Planner.Provider = "icalfeed"
	cfg.Couplings.Planner.IntervalMinutes = 15
	applyDefaults(cfg)

	if cfg.Couplings.Planner.Provider != "icalfeed" {
		t.Errorf("provider was overridden to %q", cfg.Couplings.Planner.Provider)
	}
	if cfg.Couplings.Planner.IntervalMinutes != 15 {
		t.Errorf("interval was overridden to %d", cfg.Couplings.Planner.IntervalMinutes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"regime override parses", func(c *Config) { c.Plan.Regime = "hard" }, ""},
		{"bad regime", func(c *Config) { c.Plan.Regime = "strict" }, "invalid plan regime"},
		{"bad mode", func(c *Config) { c.Plan.Mode = "auto" }, "invalid plan mode"},
		{"bad geo status", func(c *Config) { c.Couplings.Geo.Status = "flying" }, "invalid geo status"},
		{"bad weather status", func(c *Config) { c.Couplings.Weather.Status = "sunny" }, "invalid weather status"},
		{"bad weather risk", func(c *Config) { c.Couplings.Weather.Risk = "extreme" }, "invalid weather risk"},
		{
			"unknown planner provider is accepted",
			func(c *Config) {
				c.Couplings.Planner.Enabled = true
				c.Couplings.Planner.Provider = "outlook"
			},
			"",
		},
		{"zero planner interval", func(c *Config) { c.Couplings.Planner.IntervalMinutes = -1 }, "planner interval"},
		{"zero check interval", func(c *Config) { c.Monitor.CheckIntervalMinutes = -1 }, "check interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForActivate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"plan file required",
			func(c *Config) {},
			"plan file is required",
		},
		{
			"complete config passes",
			func(c *Config) { c.Plan.File = "plan.yaml" },
			"",
		},
		{
			"todoist needs credentials",
			func(c *Config) {
				c.Plan.File = "plan.yaml"
				c.Couplings.Planner.Enabled = true
			},
			"planner token or jwt_issuer",
		},
		{
			"todoist with service auth passes",
			func(c *Config) {
				c.Plan.File = "plan.yaml"
				c.Couplings.Planner.Enabled = true
				c.Couplings.Planner.JWTIssuer = "svc-4821"
				c.Couplings.Planner.PrivateKeyFile = "/etc/triaia/planner.pem"
			},
			"",
		},
		{
			"todoist with issuer but no key file errors",
			func(c *Config) {
				c.Plan.File = "plan.yaml"
				c.Couplings.Planner.Enabled = true
				c.Couplings.Planner.JWTIssuer = "svc-4821"
			},
			"planner token or jwt_issuer",
		},
		{
			"unknown provider needs no token",
			func(c *Config) {
				c.Plan.File = "plan.yaml"
				c.Couplings.Planner.Enabled = true
				c.Couplings.Planner.Provider = "outlook"
			},
			"",
		},
		{
			"icalfeed needs a feed url",
			func(c *Config) {
				c.Plan.File = "plan.yaml"
				c.Couplings.Planner.Enabled = true
				c.Couplings.Planner.Provider = "icalfeed"
			},
			"feed_url is required",
		},
		{
			"icalfeed with feed url passes",
			func(c *Config) {
				c.Plan.File = "plan.yaml"
				c.Couplings.Planner.Enabled = true
				c.Couplings.Planner.Provider = "icalfeed"
				c.Couplings.Planner.FeedURL = "https://calendar.example.com/export.ics"
			},
			"",
		},
		{
			"openai assistant needs a key",
			func(c *Config) {
				c.Plan.File = "plan.yaml"
				c.Assistant.Enabled = true
				c.Assistant.Provider = "openai"
			},
			"assistant api_key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.ValidateForActivate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateForActivate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateForActivate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
