package config

import (
	"fmt"
	"os"
	"strings"

	"subfetch/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSubtitles()
	c.normalizeFetch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir)
	if c.Paths.OutputDir != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.OpenSubtitlesAPIKey = strings.TrimSpace(c.Subtitles.OpenSubtitlesAPIKey)
	if c.Subtitles.OpenSubtitlesAPIKey == "" {
		if value, ok := os.LookupEnv("OPENSUBTITLES_API_KEY"); ok {
			c.Subtitles.OpenSubtitlesAPIKey = strings.TrimSpace(value)
		}
	}
	c.Subtitles.OpenSubtitlesUserAgent = strings.TrimSpace(c.Subtitles.OpenSubtitlesUserAgent)
	if c.Subtitles.OpenSubtitlesUserAgent == "" {
		c.Subtitles.OpenSubtitlesUserAgent = defaultOpenSubtitlesUserAgent
	}
	c.Subtitles.OpenSubtitlesUserToken = strings.TrimSpace(c.Subtitles.OpenSubtitlesUserToken)
	if c.Subtitles.OpenSubtitlesUserToken == "" {
		if value, ok := os.LookupEnv("OPENSUBTITLES_USER_TOKEN"); ok {
			c.Subtitles.OpenSubtitlesUserToken = strings.TrimSpace(value)
		}
	}
	c.Subtitles.OpenSubtitlesBaseURL = strings.TrimSpace(c.Subtitles.OpenSubtitlesBaseURL)
	if c.Subtitles.OpenSubtitlesBaseURL == "" {
		c.Subtitles.OpenSubtitlesBaseURL = defaultOpenSubtitlesBaseURL
	}
	if normalized := language.NormalizeList(c.Subtitles.Languages); len(normalized) > 0 {
		c.Subtitles.Languages = normalized
	} else {
		c.Subtitles.Languages = []string{"en"}
	}
}

func (c *Config) normalizeFetch() {
	if c.Fetch.Workers < 1 {
		c.Fetch.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
