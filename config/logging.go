package config

import (
	"fmt"
)

// LoggingConfig defines log verbosity and output format.
type LoggingConfig struct {
	// Level is the minimum severity to emit: "debug", "info", "warn" or "error".
	Level string `json:"level"`
	// Env selects the output format: "dev" for console, anything else for JSON.
	Env string `json:"env"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %s", c.Level)
	}
}
