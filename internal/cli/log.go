// Package cli implements the keygrid command-line interface.
//
// The CLI loads layout files, resolves their units and anchors through the
// pipeline, and prints or exports the resulting points. It is built with
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - resolve: Resolve a layout and write its points as JSON, YAML or a table
//   - units: Print the resolved units table of a layout
//   - eval: Evaluate an expression against a layout's units
//   - graph: Render the anchor reference graph (DOT, SVG, PNG, PDF, JSON)
//   - browse: Interactively browse resolved points and their references
//   - cache: Inspect and clear the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage, resolved point and cache event.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/keygrid/pkg/observability"
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

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Resolved 42 points (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// logHooks reports pipeline, resolve and cache events at debug level and
// keeps an optional spinner in step with the running stage.
type logHooks struct {
	logger  *log.Logger
	spinner *Spinner
}

// installHooks routes observability events to logger (and spinner, if not
// nil) until the returned function is called.
func installHooks(logger *log.Logger, spinner *Spinner) func() {
	h := &logHooks{logger: logger, spinner: spinner}
	observability.SetPipelineHooks(h)
	observability.SetResolveHooks(h)
	observability.SetCacheHooks(h)
	return observability.Reset
}

func (h *logHooks) OnStageStart(_ context.Context, stage string) {
	h.logger.Debug("stage started", "stage", stage)
	if h.spinner != nil {
		h.spinner.SetMessage(stageMessage(stage))
	}
}

func (h *logHooks) OnStageComplete(_ context.Context, stage string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", stage, "error", err)
		return
	}
	h.logger.Debug("stage complete", "stage", stage, "count", count, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnPointResolved(_ context.Context, name string, mirrored bool) {
	h.logger.Debug("resolved point", "name", name, "mirrored", mirrored)
}

func (h *logHooks) OnPointFailed(_ context.Context, name string, err error) {
	h.logger.Warn("point failed", "name", name, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h *logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h *logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

// stageMessage is the spinner text shown while stage runs.
func stageMessage(stage string) string {
	switch stage {
	case "load":
		return "Loading layout..."
	case "units":
		return "Resolving units..."
	case "points":
		return "Resolving points..."
	case "mirror":
		return "Mirroring points..."
	case "placements":
		return "Placing points..."
	case "render":
		return "Rendering reference graph..."
	default:
		return stage + "..."
	}
}
