// Package opensubtitles wraps the OpenSubtitles REST API for
// hash-based subtitle search and download, including the rate-limit
// pacing and retry policy the service expects from well-behaved
// clients.
package opensubtitles
