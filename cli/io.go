// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Open reads the given config object from the given TOML file,
// expanding a leading ~ to the user's home directory.
// Fields not present in the file keep their current values.
func Open(cfg any, file string) error {
	fn, err := homedir.Expand(file)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("cli.Open: %s: %w", fn, err)
	}
	return nil
}

// Save writes the given config object to the given TOML file,
// creating its directory if needed.
func Save(cfg any, file string) error {
	fn, err := homedir.Expand(file)
	if err != nil {
		return err
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fn, b, 0o644)
}

// FindConfigFile returns the first of the given files that exists,
// or "" if none do.
func FindConfigFile(files ...string) string {
	for _, f := range files {
		fn, err := homedir.Expand(f)
		if err != nil {
			continue
		}
		if _, err := os.Stat(fn); err == nil {
			return fn
		}
	}
	return ""
}
