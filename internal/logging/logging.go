package logging

import (
	"io"
	"log/slog"
	"os"
	"testing"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatText is the colorized, human-oriented encoding used on stderr.
	FormatText Format = "text"
	// FormatJSON is the machine-oriented encoding used for --log-format
	// json and for log files.
	FormatJSON Format = "json"
)

// Config describes one logger destination. The root command builds one of
// these per output (stderr, optional log file).
type Config struct {
	// Level is the minimum level written; records below it are dropped.
	Level slog.Level
	// Format selects the encoding. Unrecognized values fall back to text.
	Format Format
	// Output receives the records. Defaults to os.Stderr when nil.
	Output io.Writer
}

// New builds a logger from cfg, applying the defaults documented on Config.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = NewHandler(output, opts)
	}

	return slog.New(handler)
}

// Default returns the logger used before flags are parsed: Info-level text
// on stderr.
func Default() *slog.Logger {
	return New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	})
}

// NewDiscard returns a logger that drops everything. Components take it as
// their default so logging stays opt-in through their options.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testWriter adapts testing.T to io.Writer so handlers can write through
// t.Log.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	// t.Log appends its own newline.
	msg := string(p)
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	w.t.Log(msg)
	return len(p), nil
}

// ForTest returns a Debug-level logger routed through t.Log, so records
// surface only on failure or under -v.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{
		Level:  slog.LevelDebug,
		Format: FormatText,
		Output: &testWriter{t: t},
	})
}
