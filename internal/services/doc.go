// Package services defines shared error classification used across the
// fetch pipeline and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures
//     with a component and operation for consistent reporting.
//   - Classify, which maps any pipeline error onto the outcome kind the
//     batch report and exit-code policy understand.
//
// Use these helpers when wiring new pipeline logic so error handling
// stays uniform across components.
package services
