package config

import (
	"fmt"

	"github.com/recset-labs/recset/internal/cli/output"
)

// Validate checks option values that have a closed set of choices.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return fmt.Errorf("invalid output setting: %w", err)
	}
	if c.StatePath == "" {
		return fmt.Errorf("state_path must not be empty")
	}
	return nil
}
