// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build offscreen || !((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package app

import (
	"context"

	"cogentcore.org/kanban/base/errors"
	"cogentcore.org/kanban/config"
)

// ErrNoWindow is returned by [New] on platforms without a desktop window.
var ErrNoWindow = errors.New("app: no desktop window support on this platform")

// New returns [ErrNoWindow].
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return nil, ErrNoWindow
}
