// Package cli implements the textuml command-line interface.
//
// The CLI turns free-text descriptions into UML class diagrams. It is built
// on cobra, logs with charmbracelet/log and prints results with lipgloss.
//
// # Commands
//
// The main commands are:
//   - generate: extract, lay out and render a diagram from text
//   - extract: print or save the extraction result
//   - render: render a saved description, optionally watching it
//   - serve: run the HTTP API
//   - examples: list or pick the built-in examples
//   - cache: clear the cache or print its location
//
// # Configuration
//
// Settings come from internal/config: defaults, a textuml config file,
// TEXTUML_* environment variables, and the flags of the running command.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with short wall-clock timestamps
// such as "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command stage. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time, rounded to the
// millisecond, appended to keyvals under "duration".
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "duration", elapsed)...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or log.Default
// when commands run without the root's pre-run hook (tests, completion).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
