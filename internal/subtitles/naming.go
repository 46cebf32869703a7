package subtitles

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultExtension is used when the remote service does not report a
// subtitle format.
const DefaultExtension = "srt"

// DerivedFilename builds the on-disk name for a downloaded subtitle:
// the video's base name with its extension replaced by a language
// suffix plus the subtitle extension. index > 0 adds a position suffix
// so multiple downloads for one language (all mode) never collide:
//
//	movie.mkv + en       -> movie.en.srt
//	movie.mkv + en, #2   -> movie.en-2.srt
func DerivedFilename(videoPath, lang string, index int, ext string) string {
	base := filepath.Base(videoPath)
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		base = stem
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = DefaultExtension
	}
	lang = normalizeLang(lang)
	if lang == "" {
		lang = "und"
	}
	if index > 0 {
		return fmt.Sprintf("%s.%s-%d.%s", base, lang, index, ext)
	}
	return fmt.Sprintf("%s.%s.%s", base, lang, ext)
}
