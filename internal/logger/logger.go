package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/strapisync/internal/diag"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFromConfig builds a logger for a level name such as "debug" or "warn".
// When path is set, output also goes to that file.
func NewFromConfig(w io.Writer, level, path string) (*Logger, func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	if path == "" {
		return NewWithLevel(w, lvl), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(io.MultiWriter(w, f), lvl), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// SyncStarted logs the start of a sync run
func (l *Logger) SyncStarted(runID, source, outputDir string, dryRun bool) {
	l.Info("sync started",
		"run", runID,
		"source", source,
		"output_dir", outputDir,
		"dry_run", dryRun)
}

// ArticlesFetched logs how many articles the CMS returned
func (l *Logger) ArticlesFetched(count int, duration time.Duration) {
	l.Info("articles fetched",
		"count", count,
		"duration", duration.Round(time.Millisecond))
}

// OutputCleared logs the removal and recreation of the output directory
func (l *Logger) OutputCleared(dir string) {
	l.Info("output directory cleared", "dir", dir)
}

// ArticleWritten logs a successfully written article file
func (l *Logger) ArticleWritten(file, id string) {
	l.Info("article written",
		"file", file,
		"id", id)
}

// Diagnostic logs a non-fatal conversion warning
func (l *Logger) Diagnostic(id string, w diag.Warning) {
	fields := append([]any{"id", id, "kind", string(w.Kind)}, w.Fields...)
	l.Warn(w.Message, fields...)
}

// ArticleFailed logs an article that could not be materialized or written
func (l *Logger) ArticleFailed(id, title string, err error) {
	l.Error("article failed",
		"id", id,
		"title", title,
		"error", err)
}

// SyncCompleted logs the completion of a sync run
func (l *Logger) SyncCompleted(written, warnings, errors int, duration time.Duration) {
	l.Info("sync completed",
		"articles_written", written,
		"warnings", warnings,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(strapiURL, outputDir string, timeout time.Duration) {
	l.Debug("config loaded",
		"strapi_url", strapiURL,
		"output_dir", outputDir,
		"timeout", timeout)
}
