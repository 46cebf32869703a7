// Package subtitles holds the candidate data model, the deterministic
// selection policy, and the derived-filename rules for downloaded
// subtitle files.
package subtitles
