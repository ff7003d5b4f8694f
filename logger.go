// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package logger. Sessions copy it when created.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the default logger for sessions created afterwards.
// By default agecube produces no log output. Pass nil to restore silence.
//
// Log levels used by agecube:
//   - [slog.LevelDebug]: per-frame buffer age, plan and damage
//   - [slog.LevelInfo]: setup events (kernel buffer pitch and fd, programs)
//   - [slog.LevelWarn]: advisory framebuffer status, release errors
//
// Example:
//
//	agecube.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the default logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices and surfaces that log.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands l to every collaborator that accepts a logger.
func propagateLogger(l *slog.Logger, targets ...any) {
	for _, t := range targets {
		if ls, ok := t.(loggerSetter); ok {
			ls.SetLogger(l)
		}
	}
}
