package tri

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/tri/batch"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package logger of tri and its sub-packages.
// By default, tri produces no log output. Pass nil to restore the silent
// default. Renderers created afterwards hand it to their device; use
// Renderer.SetLogger or WithLogger to change one renderer.
//
// Log levels used by tri:
//   - [slog.LevelDebug]: per-frame diagnostics (list full, run skipped)
//   - [slog.LevelInfo]: lifecycle events (backend initialized)
//   - [slog.LevelWarn]: non-fatal resource problems
//
// Example:
//
//	tri.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	batch.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// SetLogger sets the logger of this renderer and of its device when the
// device accepts one. Pass nil to fall back to the package logger.
func (r *Renderer) SetLogger(l *slog.Logger) {
	r.log.Store(l)
	if l == nil {
		l = Logger()
	}
	if ls, ok := r.dev.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// logger returns the renderer's logger or the package logger.
func (r *Renderer) logger() *slog.Logger {
	if l := r.log.Load(); l != nil {
		return l
	}
	return Logger()
}
