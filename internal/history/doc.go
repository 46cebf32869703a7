// Package history persists a ledger of saved subtitles in SQLite so
// past runs can be inspected from the CLI. The store implements the
// pipeline's Recorder contract; recording is best effort and never
// blocks a download from being saved.
package history
