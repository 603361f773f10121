// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides structured logging and printing helpers
// built on log/slog, with a colored terminal handler.
package logx

import "log/slog"

// UserLevel is the lowest [slog.Level] shown to the user, by both the
// default logger and the Print helpers. The -v, --vv, and -q flags set
// it; without them it is [slog.LevelInfo] in development builds and
// [slog.LevelWarn] in builds with the release tag.
var UserLevel = defaultUserLevel

// LevelFromFlags maps the verbosity flags to a level: vv is debug,
// v is info, q is error, and none of them is warn. The first flag
// set in that order wins.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	}
	return slog.LevelWarn
}
