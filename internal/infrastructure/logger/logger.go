package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
	closer io.Closer
}

// Options selects level, format and destination of a Logger
type Options struct {
	// DEBUG, INFO, WARN, ERROR (default: INFO)
	Level string
	// json or text (default: text)
	Format string
	// stdout, stderr, or file path (default: stdout)
	Output string
}

// DefaultLogger creates a logger using slog.Default()
func DefaultLogger() *Logger {
	return &Logger{
		Logger: slog.Default(),
	}
}

// NewLogger creates a configured logger from opts
func NewLogger(opts Options) *Logger {
	level := ParseLogLevel(opts.Level)
	format := strings.ToLower(opts.Format)
	output := opts.Output

	// Default to text format if not specified
	if format == "" {
		format = "text"
	}

	// Default to stdout if not specified
	if output == "" {
		output = "stdout"
	}

	// Get output writer
	var (
		writer io.Writer
		closer io.Closer
	)
	switch output {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		// File path
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			// Fallback to stdout if file can't be opened
			writer = os.Stdout
		} else {
			writer = file
			closer = file
		}
	}

	return newLogger(writer, closer, format, level)
}

func newLogger(w io.Writer, closer io.Closer, format string, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
		closer: closer,
	}
}

// SLog exposes the underlying slog.Logger for libraries that need one
func (l *Logger) SLog() *slog.Logger {
	return l.Logger
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// ParseLogLevel parses log level from string
func ParseLogLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefaultLogger sets the logger as the default slog logger
func SetDefaultLogger(l *Logger) {
	slog.SetDefault(l.Logger)
}
