package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/strapisync/internal/article"
	"github.com/gerunddev/strapisync/internal/config"
	"github.com/gerunddev/strapisync/internal/diag"
	"github.com/gerunddev/strapisync/internal/diff"
	"github.com/gerunddev/strapisync/internal/logger"
	"github.com/gerunddev/strapisync/internal/state"
)

var (
	ErrUnsafeFilename    = errors.New("filename is not a single path segment")
	ErrDuplicateFilename = errors.New("filename already produced by another article")
)

// ArticleLister provides the articles to publish, newest first
type ArticleLister interface {
	ListArticles(ctx context.Context) ([]article.Article, error)
}

// ArticleError ties a failure to the article that caused it
type ArticleError struct {
	ID    string
	Title string
	Err   error
}

func (e *ArticleError) Error() string {
	return fmt.Sprintf("article %s (%q): %v", e.ID, e.Title, e.Err)
}

func (e *ArticleError) Unwrap() error {
	return e.Err
}

// Options controls a single run
type Options struct {
	// DryRun renders everything and diffs it against the output directory
	// without touching the filesystem
	DryRun bool
}

// Syncer rebuilds the output directory from the CMS
type Syncer struct {
	config  *config.Config
	lister  ArticleLister
	log     *logger.Logger
	source  string
	now     func() time.Time
	newID   func() string
	prev    *state.Manifest
	onEvent func(Event)
}

// Event reports progress to an optional observer such as the TUI
type Event struct {
	Done  int
	Total int
	File  string
}

// NewSyncer creates a new syncer instance
func NewSyncer(cfg *config.Config, lister ArticleLister, log *logger.Logger) *Syncer {
	if log == nil {
		log = logger.Discard()
	}
	return &Syncer{
		config: cfg,
		lister: lister,
		log:    log,
		source: cfg.StrapiURL,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// SetPrevious sets the manifest of the last run, used to report changes
func (s *Syncer) SetPrevious(m *state.Manifest) {
	s.prev = m
}

// OnEvent registers a progress callback
func (s *Syncer) OnEvent(fn func(Event)) {
	s.onEvent = fn
}

// SyncResult represents the result of a sync run
type SyncResult struct {
	RunID     string
	DryRun    bool
	Fetched   int
	Reset     bool // output directory was cleared and rebuilt
	Written   []string
	Skipped   []string
	Warnings  []diag.Warning
	Errors    []error
	Changes   state.Changes
	Diffs     []diff.FileDiff
	Manifest  *state.Manifest
	StartTime time.Time
	EndTime   time.Time
}

// Sync fetches every article, rebuilds the output directory and writes one
// Markdown file per article in listing order.
func (s *Syncer) Sync(ctx context.Context, opts Options) (*SyncResult, error) {
	result := &SyncResult{
		RunID:     s.newID(),
		DryRun:    opts.DryRun,
		StartTime: s.now(),
	}
	defer func() {
		result.EndTime = s.now()
	}()

	manifest := state.NewManifest(result.RunID)
	manifest.StartedAt = result.StartTime
	manifest.Source = s.source
	manifest.OutputDir = s.config.OutputDir
	result.Manifest = manifest

	s.log.SyncStarted(result.RunID, s.source, s.config.OutputDir, opts.DryRun)

	fetchStart := s.now()
	articles, err := s.lister.ListArticles(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list articles: %w", err)
	}
	result.Fetched = len(articles)
	s.log.ArticlesFetched(len(articles), s.now().Sub(fetchStart))

	if len(articles) == 0 {
		s.log.Info("no published articles found, output left untouched")
		return result, nil
	}

	if !opts.DryRun {
		if err := ResetDir(s.config.OutputDir); err != nil {
			return result, err
		}
		result.Reset = true
		s.log.OutputCleared(s.config.OutputDir)
	}

	seen := make(map[string]string, len(articles))
	base := s.config.AssetURL()

	for i, a := range articles {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		filename, err := s.process(a, base, seen, opts, result)
		if err != nil {
			artErr := &ArticleError{ID: string(a.ID), Title: a.Title, Err: err}
			s.log.ArticleFailed(artErr.ID, a.Title, err)
			result.Errors = append(result.Errors, artErr)
			if s.config.OnError != config.OnErrorSkip {
				return result, artErr
			}
			result.Skipped = append(result.Skipped, artErr.ID)
			continue
		}

		if s.onEvent != nil {
			s.onEvent(Event{Done: i + 1, Total: len(articles), File: filename})
		}
	}

	if opts.DryRun {
		removed, err := s.planRemovals(seen)
		if err != nil {
			return result, err
		}
		result.Diffs = append(result.Diffs, removed...)
	}

	manifest.FinishedAt = s.now()
	if s.prev != nil {
		result.Changes = manifest.Compare(s.prev)
	}

	s.log.SyncCompleted(len(result.Written), len(result.Warnings), len(result.Errors), s.now().Sub(result.StartTime))
	return result, nil
}

func (s *Syncer) process(a article.Article, base string, seen map[string]string, opts Options, result *SyncResult) (string, error) {
	rendered, err := article.Materialize(a, base)
	if err != nil {
		return "", err
	}

	for _, w := range rendered.Warnings {
		s.log.Diagnostic(string(a.ID), w)
	}
	result.Warnings = append(result.Warnings, rendered.Warnings...)

	if !IsSafeFilename(rendered.Filename) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeFilename, rendered.Filename)
	}
	if other, dup := seen[rendered.Filename]; dup {
		return "", fmt.Errorf("%w: %s (article %s)", ErrDuplicateFilename, rendered.Filename, other)
	}
	seen[rendered.Filename] = string(a.ID)

	content := rendered.Content()
	path := filepath.Join(s.config.OutputDir, rendered.Filename)

	if opts.DryRun {
		d, err := diff.AgainstFile(path, rendered.Filename, content)
		if err != nil {
			return "", err
		}
		result.Diffs = append(result.Diffs, d)
	} else {
		if err := WriteFileAtomic(path, []byte(content)); err != nil {
			return "", err
		}
		s.log.ArticleWritten(rendered.Filename, string(a.ID))
	}

	result.Written = append(result.Written, rendered.Filename)
	result.Manifest.Record(rendered.Filename, string(a.ID), a.Title, []byte(content))
	return rendered.Filename, nil
}

// planRemovals lists files in the output directory that a real run would
// delete because no article produces them
func (s *Syncer) planRemovals(seen map[string]string) ([]diff.FileDiff, error) {
	existing, err := ScanDirectory(s.config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan output directory: %w", err)
	}

	var removed []diff.FileDiff
	for _, name := range existing {
		if _, kept := seen[name]; kept {
			continue
		}
		d, err := diff.AgainstFile(filepath.Join(s.config.OutputDir, name), name, "")
		if err != nil {
			return nil, err
		}
		d.Removed = true
		removed = append(removed, d)
	}
	return removed, nil
}

// IsSafeFilename reports whether name can be joined to the output directory
// without escaping it
func IsSafeFilename(name string) bool {
	if name == "" || name == ".md" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}

// ResetDir removes dir and everything in it, then recreates it empty
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file in the target directory
// and renames it over path
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// ScanDirectory lists the regular files in dir
func ScanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

// Failed reports whether any article could not be written
func (r *SyncResult) Failed() bool {
	return len(r.Errors) > 0
}

// String returns a human-readable summary of the sync result
func (r *SyncResult) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	verb := "written"
	if r.DryRun {
		verb = "planned"
	}
	return fmt.Sprintf(
		"Sync complete: %d of %d articles %s, %d warnings, %d errors (took %v)",
		len(r.Written),
		r.Fetched,
		verb,
		len(r.Warnings),
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}
