// Package telemetry is the logging seam for the demo CLI. The rating engine
// itself never logs; diagnostics here go to stderr so they stay clear of the
// result tables the CLI prints on stdout.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var logger *slog.Logger

// Init routes slog output through the CLI handler at the given level.
func Init(level slog.Level) {
	logger = slog.New(&cliHandler{w: os.Stderr, level: level})
	slog.SetDefault(logger)
}

func L() *slog.Logger {
	if logger == nil {
		Init(slog.LevelInfo)
	}
	return logger
}

func Infof(format string, args ...any)  { L().Info(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { L().Error(fmt.Sprintf(format, args...)) }
func Debugf(format string, args ...any) { L().Debug(fmt.Sprintf(format, args...)) }

// ParseLogLevel converts the LOG_LEVEL configuration string to slog.Level.
// The CLI only distinguishes debug, info and error.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// cliHandler prints one "trueskill: level: message" line per record. An
// interactive run needs no timestamps or attributes, just lines that read
// apart from the stdout tables.
type cliHandler struct {
	w     io.Writer
	level slog.Level
	mu    sync.Mutex
}

func (h *cliHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *cliHandler) Handle(_ context.Context, r slog.Record) error {
	label := "info"
	switch {
	case r.Level >= slog.LevelError:
		label = "error"
	case r.Level < slog.LevelInfo:
		label = "debug"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.w, "trueskill: %s: %s\n", label, r.Message)
	return err
}

func (h *cliHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *cliHandler) WithGroup(_ string) slog.Handler      { return h }
