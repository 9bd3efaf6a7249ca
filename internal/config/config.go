// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults applied when the config file or individual fields are absent.
const (
	DefaultBaseURL       = "https://clarity.fm"
	DefaultDebuggingPort = 9223
	DefaultNavTimeout    = 30 * time.Second
	DefaultStepTimeout   = 10 * time.Second
	DefaultMonthlyBudget = 500.0
)

// Config represents the agent configuration loaded from a JSON file.
// All fields are optional; missing values use defaults. Credentials may also be
// supplied via CONSULT_EMAIL / CONSULT_PASSWORD environment variables, which win.
type Config struct {
	BaseURL        string  `json:"base_url,omitempty"`        // Marketplace base URL
	Email          string  `json:"email,omitempty"`           // Login email
	Password       string  `json:"password,omitempty"`        // Login password
	DataDir        string  `json:"data_dir,omitempty"`        // Session record, cookies, ledger
	ScreenshotsDir string  `json:"screenshots_dir,omitempty"` // Screenshot output directory
	Headless       bool    `json:"headless,omitempty"`        // Run Chrome headless
	Verbose        bool    `json:"verbose,omitempty"`         // Print detailed debug information
	MonthlyBudget  float64 `json:"monthly_budget,omitempty"`  // Advisory monthly spend cap
	DebuggingPort  int     `json:"debugging_port,omitempty"`  // Chrome remote debugging port

	NavTimeoutSec  int `json:"nav_timeout_sec,omitempty"`  // Navigation timeout (seconds)
	StepTimeoutSec int `json:"step_timeout_sec,omitempty"` // Selector/step timeout (seconds)
}

// Load reads configuration from a JSON file. A missing file is not an error; it
// returns a default-populated config so the agent can run on env vars alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config JSON: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CONSULT_EMAIL"); v != "" {
		c.Email = v
	}
	if v := os.Getenv("CONSULT_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("CONSULT_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.DataDir = filepath.Join(home, ".consult-agent")
	}
	if c.ScreenshotsDir == "" {
		c.ScreenshotsDir = filepath.Join(c.DataDir, "screenshots")
	}
	if c.MonthlyBudget <= 0 {
		c.MonthlyBudget = DefaultMonthlyBudget
	}
	if c.DebuggingPort <= 0 {
		c.DebuggingPort = DefaultDebuggingPort
	}
}

// Validate checks that the configuration has valid values.
// Credentials are not required here; only operations that log in need them.
func (c *Config) Validate() error {
	if c.DebuggingPort < 1024 || c.DebuggingPort > 65535 {
		return fmt.Errorf("config error: 'debugging_port' must be in 1024..65535")
	}
	if c.NavTimeoutSec < 0 {
		return fmt.Errorf("config error: 'nav_timeout_sec' must be non-negative")
	}
	if c.StepTimeoutSec < 0 {
		return fmt.Errorf("config error: 'step_timeout_sec' must be non-negative")
	}
	return nil
}

// NavTimeout returns the navigation timeout as a duration.
func (c *Config) NavTimeout() time.Duration {
	if c.NavTimeoutSec > 0 {
		return time.Duration(c.NavTimeoutSec) * time.Second
	}
	return DefaultNavTimeout
}

// StepTimeout returns the per-step selector timeout as a duration.
func (c *Config) StepTimeout() time.Duration {
	if c.StepTimeoutSec > 0 {
		return time.Duration(c.StepTimeoutSec) * time.Second
	}
	return DefaultStepTimeout
}

// SessionFile returns the path of the persisted session record.
func (c *Config) SessionFile() string { return filepath.Join(c.DataDir, "session.json") }

// CookiesFile returns the path of the persisted cookie snapshot.
func (c *Config) CookiesFile() string { return filepath.Join(c.DataDir, "cookies.json") }

// LedgerFile returns the path of the monthly budget ledger.
func (c *Config) LedgerFile() string { return filepath.Join(c.DataDir, "budget.json") }

// ProfileDir returns the Chrome user-data directory for the resident browser.
func (c *Config) ProfileDir() string { return filepath.Join(c.DataDir, "chrome-profile") }
