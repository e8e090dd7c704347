// Package logging builds the slog loggers used by a run.
//
// Records go to stderr at a level chosen by the quiet and stats flags and,
// when a log file is configured, are also appended to that file at INFO.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
)

// Options selects the destinations and verbosity.
type Options struct {
	// Stderr receives console records. Defaults to os.Stderr.
	Stderr io.Writer

	// File is appended to when non-empty.
	File string

	// Quiet limits console output to errors.
	Quiet bool

	// Verbose lowers the console level to INFO.
	Verbose bool
}

// Logger bundles the console+file logger with a file-only logger.
type Logger struct {
	*slog.Logger

	// File only writes to the log file; it discards when none is configured.
	File *slog.Logger

	closer io.Closer
}

// Level returns the console level for the given options.
func (o Options) Level() slog.Level {
	switch {
	case o.Quiet:
		return slog.LevelError
	case o.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// New opens the log file on fsys, if any, and returns the loggers.
// Close must be called to release the file.
func New(fsys afero.Fs, opts Options) (*Logger, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	console := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: opts.Level()})

	if opts.File == "" {
		return &Logger{
			Logger: slog.New(console),
			File:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		}, nil
	}

	const ownerReadWrite = 0o600

	file, err := fsys.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, ownerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", opts.File, err)
	}

	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelInfo})

	return &Logger{
		Logger: slog.New(tee{console, fileHandler}),
		File:   slog.New(fileHandler),
		closer: file,
	}, nil
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}

	if err := l.closer.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}

	return nil
}

// tee fans records out to every handler enabled for their level.
type tee []slog.Handler

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (t tee) Handle(ctx context.Context, record slog.Record) error {
	var errs []error

	for _, h := range t {
		if h.Enabled(ctx, record.Level) {
			errs = append(errs, h.Handle(ctx, record.Clone()))
		}
	}

	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}

	return out
}

func (t tee) WithGroup(name string) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}

	return out
}
