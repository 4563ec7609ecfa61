package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
	// FormatConsole outputs logs in human-readable console format.
	FormatConsole LogFormat = "console"
)

// Logger is a *slog.Logger with a runtime-adjustable level and a shared
// redactor.
type Logger struct {
	*slog.Logger

	// level is the minimum log level
	level *slog.LevelVar

	// redactor masks credentials in every record
	redactor *Redactor
}

// Config contains configuration for the Logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string

	// Format is the output format ("json", "text", "console")
	Format string

	// Quiet discards all output
	Quiet bool

	// AddSource includes file and line number in json and text logs
	AddSource bool

	// Secrets are literal values masked wherever they appear
	Secrets []string

	// Color forces ANSI colors on or off for the console format. When nil,
	// colors are used if Writer is a terminal.
	Color *bool

	// Writer is the output writer (defaults to os.Stderr)
	Writer io.Writer
}

// New creates a new Logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	redactor := NewRedactor(cfg.Secrets...)

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level:     levelVar,
		AddSource: cfg.AddSource,
	}

	switch {
	case cfg.Quiet:
		handler = slog.DiscardHandler
	case format == FormatJSON:
		handler = slog.NewJSONHandler(writer, opts)
	case format == FormatText:
		handler = slog.NewTextHandler(writer, opts)
	default:
		color := DetectColor(writer)
		if cfg.Color != nil {
			color = *cfg.Color
		}
		handler = newConsoleHandler(writer, levelVar, color)
	}

	handler = &redactHandler{next: handler, redactor: redactor}
	handler = &contextHandler{next: handler}

	return &Logger{
		Logger:   slog.New(handler),
		level:    levelVar,
		redactor: redactor,
	}, nil
}

// SetLevel changes the minimum level of the logger and every logger derived
// from it.
func (l *Logger) SetLevel(levelStr string) error {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}
	l.level.Set(level)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// AddSecret registers another value to mask, e.g. a token read after startup.
func (l *Logger) AddSecret(secret string) {
	l.redactor.AddSecret(secret)
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// ParseFormat parses a log format string into LogFormat.
func ParseFormat(formatStr string) (LogFormat, error) {
	switch strings.ToLower(formatStr) {
	case "console", "":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	default:
		return FormatConsole, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
