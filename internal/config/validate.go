package config

import (
	"errors"
	"fmt"
)

const maxWorkers = 16

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.OpenSubtitlesAPIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/subfetch/config.toml"
		}
		return fmt.Errorf("subtitles.opensubtitles_api_key is required. Set OPENSUBTITLES_API_KEY env var or edit %s (create with 'subfetch config init')", defaultPath)
	}
	if len(c.Subtitles.Languages) == 0 {
		return errors.New("subtitles.languages must list at least one language")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.Workers < 1 || c.Fetch.Workers > maxWorkers {
		return fmt.Errorf("fetch.workers must be between 1 and %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
