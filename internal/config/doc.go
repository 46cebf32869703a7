// Package config loads and validates the subfetch configuration file.
//
// Configuration is TOML, defaulting to ~/.config/subfetch/config.toml
// with a project-local subfetch.toml fallback. Every setting has a
// default so the tool runs with nothing but an OpenSubtitles API key,
// which may also come from the OPENSUBTITLES_API_KEY environment
// variable. Load applies defaults, expands paths, normalizes values,
// and validates before returning.
package config
