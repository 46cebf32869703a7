package config

const (
	defaultDataDir                = "~/.local/share/subfetch"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultWorkers                = 1
	defaultOpenSubtitlesUserAgent = "subfetch/dev"
	defaultOpenSubtitlesBaseURL   = "https://api.opensubtitles.com/api/v1"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Subtitles: Subtitles{
			Languages:              []string{"en"},
			OpenSubtitlesUserAgent: defaultOpenSubtitlesUserAgent,
			OpenSubtitlesBaseURL:   defaultOpenSubtitlesBaseURL,
		},
		Fetch: Fetch{
			Workers: defaultWorkers,
			History: true,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
