package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"subfetch/internal/language"
	"subfetch/internal/logging"
	"subfetch/internal/moviehash"
	"subfetch/internal/services"
	"subfetch/internal/subtitles"
)

// Searcher performs a remote search by content fingerprint.
type Searcher interface {
	Search(ctx context.Context, fp moviehash.Fingerprint, languages []string) ([]subtitles.Candidate, error)
}

// Downloader fetches the raw subtitle payload for a candidate.
type Downloader interface {
	Download(ctx context.Context, candidate subtitles.Candidate) ([]byte, error)
}

// Saver persists a downloaded payload under the derived filename and
// returns the final path.
type Saver interface {
	Save(data []byte, filename string) (string, error)
}

// Recorder observes successful saves (e.g. the download history store).
// Recording failures are logged, never fatal.
type Recorder interface {
	Record(ctx context.Context, entry Record) error
}

// Record describes one saved subtitle for the history ledger.
type Record struct {
	RunID       string
	VideoPath   string
	HashHex     string
	CandidateID string
	Language    string
	Score       float64
	SavedPath   string
}

// DownloadOutcome reports one selected candidate: either the path it
// was saved to or the reason it failed.
type DownloadOutcome struct {
	Candidate subtitles.Candidate
	Language  string
	SavedPath string
	Err       error
}

// FileOutcome aggregates everything that happened for one input file.
type FileOutcome struct {
	Input       string
	Fingerprint moviehash.Fingerprint
	Downloads   []DownloadOutcome
	Err         error
}

// SavedCount returns the number of subtitles saved for this file.
func (o FileOutcome) SavedCount() int {
	count := 0
	for _, d := range o.Downloads {
		if d.Err == nil {
			count++
		}
	}
	return count
}

// Failed reports whether the file fully failed: nothing was saved for
// it, either because an earlier step errored or because every download
// attempt failed.
func (o FileOutcome) Failed() bool {
	return o.Err != nil || o.SavedCount() == 0
}

// Options configures a batch run.
type Options struct {
	// Languages is the normalized requested-language list; empty accepts
	// every language the search returns.
	Languages []string
	// AllMode downloads every matching candidate instead of the best one
	// per language.
	AllMode bool
	// Workers bounds concurrent file processing. 1 processes files
	// sequentially.
	Workers int
}

// Runner executes the fetch pipeline over a batch of files.
type Runner struct {
	search   Searcher
	download Downloader
	save     Saver
	recorder Recorder
	logger   *slog.Logger
	opts     Options

	// hashFile is swappable in tests that exercise hash failures.
	hashFile func(path string) (moviehash.Fingerprint, error)
}

// New constructs a Runner. recorder may be nil.
func New(search Searcher, download Downloader, save Saver, recorder Recorder, logger *slog.Logger, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{
		search:   search,
		download: download,
		save:     save,
		recorder: recorder,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		opts:     opts,
		hashFile: moviehash.ComputeFile,
	}
}

// Run processes every input file and returns one outcome per file, in
// input order regardless of worker scheduling. Per-file errors never
// abort the batch; cancellation stops pending files.
func (r *Runner) Run(ctx context.Context, files []string) []FileOutcome {
	runID := uuid.NewString()
	logger := r.logger.With(logging.String("run_id", runID))
	logger.Info("batch started",
		logging.Int("files", len(files)),
		logging.Int("workers", r.opts.Workers),
		logging.Bool("all_mode", r.opts.AllMode),
	)

	outcomes := make([]FileOutcome, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := r.opts.Workers
	if workers > len(files) {
		workers = len(files)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = r.processFile(ctx, logger, runID, files[idx])
			}
		}()
	}

	for idx := range files {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	saved := 0
	failed := 0
	for _, outcome := range outcomes {
		saved += outcome.SavedCount()
		if outcome.Failed() {
			failed++
		}
	}
	logger.Info("batch finished",
		logging.Int("saved", saved),
		logging.Int("failed_files", failed),
	)
	return outcomes
}

func (r *Runner) processFile(ctx context.Context, logger *slog.Logger, runID, path string) FileOutcome {
	outcome := FileOutcome{Input: path}
	fileLogger := logger.With(logging.String("file", path))

	if err := ctx.Err(); err != nil {
		outcome.Err = services.Wrap(services.ErrIO, "pipeline", "fingerprint", "cancelled", err)
		return outcome
	}

	fp, err := r.hashFile(path)
	if err != nil {
		outcome.Err = services.Wrap(services.ErrIO, "pipeline", "fingerprint", path, err)
		fileLogger.Warn("fingerprint failed", logging.Error(err))
		return outcome
	}
	outcome.Fingerprint = fp
	fileLogger.Debug("fingerprint computed",
		logging.String("hash", fp.Hex()),
		logging.Uint64("size", fp.Size),
	)

	candidates, err := r.search.Search(ctx, fp, r.opts.Languages)
	if err != nil {
		outcome.Err = services.Wrap(services.ErrNetwork, "pipeline", "search", fp.Hex(), err)
		fileLogger.Warn("search failed", logging.Error(err))
		return outcome
	}

	selection := subtitles.Select(candidates, r.opts.Languages, r.opts.AllMode)
	if selection.Empty() {
		outcome.Err = services.Wrap(services.ErrNotFound, "pipeline", "select", "no matching subtitles", nil)
		fileLogger.Info("no matching subtitles",
			logging.Int("candidates", len(candidates)),
		)
		return outcome
	}
	for _, lang := range r.opts.Languages {
		if !selectionHasLanguage(selection, lang) {
			fileLogger.Info("no subtitles for language",
				logging.String("language", language.DisplayName(lang)),
			)
		}
	}

	for _, group := range selection.Groups {
		for i, candidate := range group.Candidates {
			index := 0
			if r.opts.AllMode {
				index = i + 1
			}
			outcome.Downloads = append(outcome.Downloads,
				r.fetchCandidate(ctx, fileLogger, runID, path, fp, group.Language, index, candidate))
		}
	}
	return outcome
}

func (r *Runner) fetchCandidate(ctx context.Context, logger *slog.Logger, runID, videoPath string, fp moviehash.Fingerprint, lang string, index int, candidate subtitles.Candidate) DownloadOutcome {
	result := DownloadOutcome{Candidate: candidate, Language: lang}

	if err := ctx.Err(); err != nil {
		result.Err = services.Wrap(services.ErrDownload, "pipeline", "download", candidate.ID, err)
		return result
	}

	data, err := r.download.Download(ctx, candidate)
	if err != nil {
		result.Err = services.Wrap(services.ErrDownload, "pipeline", "download", candidate.ID, err)
		logger.Warn("download failed",
			logging.String("candidate", candidate.ID),
			logging.Error(err),
		)
		return result
	}

	filename := subtitles.DerivedFilename(videoPath, lang, index, payloadExtension(candidate))
	savedPath, err := r.save.Save(data, filename)
	if err != nil {
		result.Err = services.Wrap(services.ErrDownload, "pipeline", "save", filename, err)
		logger.Warn("save failed",
			logging.String("candidate", candidate.ID),
			logging.Error(err),
		)
		return result
	}
	result.SavedPath = savedPath

	logger.Info("subtitle saved",
		logging.String("language", lang),
		logging.String("candidate_file", candidate.FileName),
		logging.Float64("score", candidate.Score),
		logging.String("path", savedPath),
	)

	if r.recorder != nil {
		record := Record{
			RunID:       runID,
			VideoPath:   videoPath,
			HashHex:     fp.Hex(),
			CandidateID: candidate.ID,
			Language:    lang,
			Score:       candidate.Score,
			SavedPath:   savedPath,
		}
		if err := r.recorder.Record(ctx, record); err != nil {
			logger.Warn("history record failed; download is saved", logging.Error(err))
		}
	}
	return result
}

func selectionHasLanguage(selection subtitles.Selection, lang string) bool {
	for _, group := range selection.Groups {
		if group.Language == lang {
			return true
		}
	}
	return false
}

// payloadExtension derives the subtitle extension from the candidate's
// remote filename, defaulting when the service does not report one.
func payloadExtension(candidate subtitles.Candidate) string {
	ext := strings.TrimPrefix(filepath.Ext(candidate.FileName), ".")
	if ext == "" {
		return subtitles.DefaultExtension
	}
	return ext
}
