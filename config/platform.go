// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"path/filepath"
	"runtime"

	"cogentcore.org/kanban/base/errors"
	"github.com/mitchellh/go-homedir"
)

// AppDataName is the name of the per-user application data directory.
const AppDataName = "ADD_Todo_App"

// DefaultDatabasePath returns the default database file for the
// current platform. On macOS the app bundle directory is read-only,
// so the database lives in the user's application support directory.
func DefaultDatabasePath() string {
	return databasePath(runtime.GOOS)
}

func databasePath(goos string) string {
	if goos != "darwin" {
		return "./todos.db"
	}
	home, err := homedir.Dir()
	if errors.Log(err) != nil {
		return "./todos.db"
	}
	return filepath.Join(home, "Library", "Application Support", AppDataName, "todos.db")
}

// DefaultFiles are the config files looked for when none is given.
var DefaultFiles = []string{"kanban.toml", "~/.config/kanban/kanban.toml"}
