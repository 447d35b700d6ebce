// Package cli implements the gridwire command-line interface.
//
// Commands open the configured backends (artifact cache, module store,
// session store) on demand, so a command that does not need Redis or
// MongoDB never dials them. The CLI is built using cobra and logs with
// charmbracelet/log; status output is styled with lipgloss.
//
// # Commands
//
//   - edit: interactive terminal editor (mouse driven)
//   - render: turn a saved graph into svg, png, json, dot, nodelink or verilog
//   - lib: list, show, scaffold and import component libraries
//   - hdl: print the Verilog of a library module
//   - serve: run the HTTP editing API
//   - session: list, show and delete saved sessions
//   - cache: manage the render artifact cache
//   - config: show or scaffold the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with the elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Rendered 3 artifacts (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
