// Package moviehash computes the OpenSubtitles content fingerprint for
// video files.
//
// The fingerprint is the file size plus the wrapping 64-bit sum of the
// first and last 64KiB of the file interpreted as little-endian
// unsigned integers. It must be reproduced bit-exact: the remote
// service uses it to match a file to known releases regardless of
// filename.
package moviehash
