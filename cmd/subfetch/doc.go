// Command subfetch downloads subtitles for video files from
// OpenSubtitles, matching by content hash rather than filename.
package main
