package editor

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/example/roomedit/internal/imagesource"
)

// nopHandler discards everything; Enabled returns false so messages are
// never formatted.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures logging for the editor and the image loader. By
// default nothing is logged. Pass nil to restore that.
//
// Levels used:
//   - [slog.LevelDebug]: commits, history moves, tool changes
//   - [slog.LevelInfo]: image changes and submissions
//   - [slog.LevelWarn]: load retries
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	imagesource.SetLogger(l)
}

// Logger returns the active logger.
func Logger() *slog.Logger { return loggerPtr.Load() }
