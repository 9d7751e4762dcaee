// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin structured logger over go-ethereum's log package.
// Package level loggers created with WithContext follow the root logger, so
// Init may run after they are declared.
package log

import (
	"io"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs after the message.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

type logger struct {
	ctx []any
}

// WithContext returns a logger that prefixes ctx to every record.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

// Root returns the logger without context.
func Root() Logger {
	return &logger{}
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{ctx: append(append(make([]any, 0, len(l.ctx)+len(ctx)), l.ctx...), ctx...)}
}

func (l *logger) merge(ctx []any) []any {
	if len(l.ctx) == 0 {
		return ctx
	}
	return append(append(make([]any, 0, len(l.ctx)+len(ctx)), l.ctx...), ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { gethlog.Root().Trace(msg, l.merge(ctx)...) }
func (l *logger) Debug(msg string, ctx ...any) { gethlog.Root().Debug(msg, l.merge(ctx)...) }
func (l *logger) Info(msg string, ctx ...any)  { gethlog.Root().Info(msg, l.merge(ctx)...) }
func (l *logger) Warn(msg string, ctx ...any)  { gethlog.Root().Warn(msg, l.merge(ctx)...) }
func (l *logger) Error(msg string, ctx ...any) { gethlog.Root().Error(msg, l.merge(ctx)...) }

// Trace logs at trace level on the root logger.
func Trace(msg string, ctx ...any) { gethlog.Root().Trace(msg, ctx...) }

// Debug logs at debug level on the root logger.
func Debug(msg string, ctx ...any) { gethlog.Root().Debug(msg, ctx...) }

// Info logs at info level on the root logger.
func Info(msg string, ctx ...any) { gethlog.Root().Info(msg, ctx...) }

// Warn logs at warn level on the root logger.
func Warn(msg string, ctx ...any) { gethlog.Root().Warn(msg, ctx...) }

// Error logs at error level on the root logger.
func Error(msg string, ctx ...any) { gethlog.Root().Error(msg, ctx...) }

// Init installs the root handler. verbosity follows the legacy scale,
// 0 (crit) to 5 (trace).
func Init(w io.Writer, verbosity int, json bool, color bool) {
	level := gethlog.FromLegacyLevel(verbosity)
	var handler slog.Handler
	if json {
		handler = gethlog.JSONHandlerWithLevel(w, level)
	} else {
		handler = gethlog.NewTerminalHandlerWithLevel(w, level, color)
	}
	gethlog.SetDefault(gethlog.NewLogger(handler))
}

// Discard silences the root logger.
func Discard() {
	gethlog.SetDefault(gethlog.NewLogger(gethlog.DiscardHandler()))
}
