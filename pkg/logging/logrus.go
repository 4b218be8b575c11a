package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const megabyte = 1024 * 1024

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logger configuration
type Config struct {
	// Path is the log file path; empty writes to the fallback writer
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the size in bytes that triggers rotation, rounded up to
	// whole megabytes. 0 uses lumberjack's default of 100 MB.
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// Logrus implements Logger on top of a logrus logger
type Logrus struct {
	entry  *logrus.Entry
	closer io.Closer
}

// New creates a logrus-backed logger.
// Entries go to cfg.Path, rotated by size, or to fallback when no path is set.
func New(cfg Config, fallback io.Writer) (*Logrus, error) {
	base := logrus.New()
	base.SetLevel(cfg.Level.logrus())

	switch cfg.Format {
	case FormatJSON:
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	default:
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02T15:04:05.000Z07:00",
			DisableColors:    true,
			QuoteEmptyFields: true,
		})
	}

	l := &Logrus{}

	if cfg.Path == "" {
		base.SetOutput(fallback)
	} else {
		if err := touch(cfg.Path); err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    megabytes(cfg.MaxSize),
			MaxBackups: cfg.MaxBackups,
		}
		base.SetOutput(w)
		l.closer = w
	}

	l.entry = logrus.NewEntry(base)
	return l, nil
}

// Debug logs a debug message
func (l *Logrus) Debug(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Debug(msg)
}

// Info logs an info message
func (l *Logrus) Info(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Info(msg)
}

// Warn logs a warning message
func (l *Logrus) Warn(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Warn(msg)
}

// Error logs an error message
func (l *Logrus) Error(ctx context.Context, msg string, err error, fields Fields) {
	entry := l.with(ctx, fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

// WithFields returns a logger with additional fields.
// The returned logger shares the output; closing either closes both.
func (l *Logrus) WithFields(fields Fields) Logger {
	return &Logrus{
		entry:  l.entry.WithFields(logrus.Fields(fields)),
		closer: l.closer,
	}
}

// Close closes the log file, if any
func (l *Logrus) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func (l *Logrus) with(ctx context.Context, fields Fields) *logrus.Entry {
	entry := l.entry.WithContext(ctx)
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	return entry
}

// megabytes converts a byte count to lumberjack's unit, rounding up
func megabytes(size int64) int {
	if size <= 0 {
		return 0
	}
	return int((size + megabyte - 1) / megabyte)
}

// touch creates the log file and its directory so a bad path fails at startup
// rather than on the first entry
func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
