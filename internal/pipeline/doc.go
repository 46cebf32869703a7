// Package pipeline orchestrates the per-file subtitle fetch flow:
// fingerprint the video, search the remote service, select candidates,
// download each selection, and save it atomically.
//
// Search, download, save, and history recording are injected
// collaborators so the whole flow runs against stubs in tests. Files in
// a batch are independent; failures stay scoped to their file and the
// batch report always covers every input in input order.
package pipeline
