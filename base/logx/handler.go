// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// level is the dynamic level used by the default logger,
// kept in sync with [UserLevel] by [SetDefaultLogger].
var level = new(slog.LevelVar)

// NewHandler returns a new [slog.Handler] writing to the given writer.
// It drops timestamps and colors the level tag according to its severity
// when the writer is a terminal that supports color.
func NewHandler(w io.Writer, lvl slog.Leveler) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				l, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				a.Value = slog.StringValue(out.String(l.String()).Foreground(LevelColor(l)).Bold().String())
			}
			return a
		},
	})
}

// LevelColor returns the terminal color used for the given level.
func LevelColor(l slog.Level) termenv.Color {
	switch {
	case l >= slog.LevelError:
		return termenv.ANSIRed
	case l >= slog.LevelWarn:
		return termenv.ANSIYellow
	case l >= slog.LevelInfo:
		return termenv.ANSICyan
	default:
		return termenv.ANSIBrightBlack
	}
}

// SetDefaultLogger sets the default logger to one writing to
// [os.Stderr] at the current [UserLevel].
func SetDefaultLogger() {
	level.Set(UserLevel)
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level)))
}
