// Package language provides unified language code normalization and
// mapping.
//
// All language-related conversions (ISO 639-1, ISO 639-2, display
// names) are consolidated here so the CLI flags, the OpenSubtitles
// client, and the report renderer agree on what a language code means.
package language
