package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subfetch/internal/history"
	"subfetch/internal/language"
	"subfetch/internal/logging"
	"subfetch/internal/moviehash"
	"subfetch/internal/pipeline"
	"subfetch/internal/services"
	"subfetch/internal/subtitles"
	"subfetch/internal/subtitles/opensubtitles"
)

// errFetchIncomplete signals that at least one input file got no
// subtitle at all. Reported per file before the command returns.
var errFetchIncomplete = errors.New("not all files got subtitles")

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var (
		languagesFlag string
		allFlag       bool
		workersFlag   int
		outputFlag    string
	)

	cmd := &cobra.Command{
		Use:   "fetch FILE...",
		Short: "Download subtitles for the given video files",
		Long: `Fetch hashes each video file, searches OpenSubtitles for matching
subtitles, and saves the best candidate per requested language (or
every candidate with --all). Subtitles are named after the video file
with a language suffix, e.g. movie.en.srt.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("%w: at least one video file is required", errUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			languages := cfg.Subtitles.Languages
			if strings.TrimSpace(languagesFlag) != "" {
				languages = language.SplitList(languagesFlag)
				if len(languages) == 0 {
					return fmt.Errorf("%w: no valid language codes in %q", errUsage, languagesFlag)
				}
			}
			allMode := cfg.Subtitles.AllMode || allFlag
			workers := cfg.Fetch.Workers
			if workersFlag > 0 {
				workers = workersFlag
			}
			outputDir := strings.TrimSpace(outputFlag)
			if outputDir == "" {
				outputDir = cfg.Paths.OutputDir
			}
			if outputDir == "" {
				outputDir = "."
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "build logger", "", err)
			}

			client, err := opensubtitles.New(opensubtitles.Config{
				APIKey:    cfg.Subtitles.OpenSubtitlesAPIKey,
				UserAgent: cfg.Subtitles.OpenSubtitlesUserAgent,
				UserToken: cfg.Subtitles.OpenSubtitlesUserToken,
				BaseURL:   cfg.Subtitles.OpenSubtitlesBaseURL,
			})
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "opensubtitles client", "", err)
			}

			saver, err := pipeline.NewDirSaver(outputDir)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "output directory", outputDir, err)
			}

			var recorder pipeline.Recorder
			if cfg.Fetch.History {
				store, err := history.Open(cfg.HistoryDBPath())
				if err != nil {
					logger.Warn("history disabled for this run", logging.Error(err))
				} else {
					defer func() { _ = store.Close() }()
					recorder = store
				}
			}

			remote := newRemoteService(client)
			runner := pipeline.New(remote, remote, saver, recorder, logger, pipeline.Options{
				Languages: languages,
				AllMode:   allMode,
				Workers:   workers,
			})

			outcomes := runner.Run(cmd.Context(), args)
			renderFetchReport(cmd, outcomes)

			for _, outcome := range outcomes {
				if outcome.Failed() {
					return errFetchIncomplete
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&languagesFlag, "languages", "l", "", "Comma-separated language codes (overrides config)")
	cmd.Flags().BoolVarP(&allFlag, "all", "a", false, "Download every matching subtitle, not only the best per language")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent files to process (overrides config)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Directory to save subtitles into (default: current directory)")

	return cmd
}

// remoteService adapts the OpenSubtitles client to the pipeline's
// searcher and downloader contracts, pacing all calls through one
// shared rate limiter.
type remoteService struct {
	client  *opensubtitles.Client
	limiter *opensubtitles.Limiter
}

func newRemoteService(client *opensubtitles.Client) *remoteService {
	return &remoteService{client: client, limiter: &opensubtitles.Limiter{}}
}

func (s *remoteService) Search(ctx context.Context, fp moviehash.Fingerprint, languages []string) ([]subtitles.Candidate, error) {
	var candidates []subtitles.Candidate
	err := s.limiter.Invoke(ctx, func() error {
		var callErr error
		candidates, callErr = s.client.Search(ctx, fp, languages)
		return callErr
	})
	return candidates, err
}

func (s *remoteService) Download(ctx context.Context, candidate subtitles.Candidate) ([]byte, error) {
	var result opensubtitles.DownloadResult
	err := s.limiter.Invoke(ctx, func() error {
		var callErr error
		result, callErr = s.client.Download(ctx, candidate.FileID, opensubtitles.DownloadOptions{})
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

func renderFetchReport(cmd *cobra.Command, outcomes []pipeline.FileOutcome) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	saved := 0
	failedFiles := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			kind := services.Classify(outcome.Err)
			fmt.Fprintln(out, renderStatusLine(outcome.Input, statusError, fmt.Sprintf("%s: %v", kind, outcome.Err), colorize))
			failedFiles++
			continue
		}
		for _, d := range outcome.Downloads {
			if d.Err != nil {
				fmt.Fprintln(out, renderStatusLine(outcome.Input, statusWarn, fmt.Sprintf("%s: %v", d.Language, d.Err), colorize))
				continue
			}
			saved++
			detail := fmt.Sprintf("%s  %.1f  %s", d.SavedPath, d.Candidate.Score, d.Candidate.FileName)
			fmt.Fprintln(out, renderStatusLine(outcome.Input, statusOK, detail, colorize))
		}
		if outcome.Failed() {
			failedFiles++
		}
	}

	if len(outcomes) > 1 {
		rows := [][]string{
			{"Files", strconv.Itoa(len(outcomes))},
			{"Subtitles saved", strconv.Itoa(saved)},
			{"Files without subtitles", strconv.Itoa(failedFiles)},
		}
		fmt.Fprintln(out, renderTable([]string{"Summary", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	}
}
