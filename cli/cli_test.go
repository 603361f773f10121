// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWindow struct {
	Width  int     `default:"800" flag:"width" desc:"window width"`
	Height int     `default:"600" desc:"window height"`
	Alpha  float32 `default:"0.5"`
}

type testConfig struct {
	Name    string        `default:"kanban" flag:"name,n" desc:"the name"`
	Debug   bool          `flag:"debug" desc:"debug mode"`
	Every   time.Duration `default:"25m" flag:"every"`
	Window  testWindow
	Ran     string
	RanArgs []string
	Flags   map[string]string
}

func (c *testConfig) SetFlags(flags map[string]string) { c.Flags = flags }

func TestSetFromDefaults(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, SetFromDefaults(cfg))
	assert.Equal(t, "kanban", cfg.Name)
	assert.Equal(t, 25*time.Minute, cfg.Every)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, float32(0.5), cfg.Window.Alpha)

	assert.Error(t, SetFromDefaults(testConfig{}))
}

func TestOpenSave(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "sub", "config.toml")
	cfg := &testConfig{}
	require.NoError(t, SetFromDefaults(cfg))
	cfg.Name = "saved"
	cfg.Window.Width = 1024
	require.NoError(t, Save(cfg, fn))

	got := &testConfig{}
	require.NoError(t, Open(got, fn))
	assert.Equal(t, "saved", got.Name)
	assert.Equal(t, 1024, got.Window.Width)
	assert.Equal(t, fn, FindConfigFile(filepath.Join(dir, "missing.toml"), fn))
	assert.Equal(t, "", FindConfigFile(filepath.Join(dir, "missing.toml")))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(fn, []byte("Name = \"fromfile\"\n\n[Window]\nWidth = 640\n"), 0o644))

	cmds := []*Cmd[*testConfig]{
		{Name: "run", Root: true, Func: func(c *testConfig, args []string) error {
			c.Ran = "run"
			return nil
		}},
		{Name: "add", Func: func(c *testConfig, args []string) error {
			c.Ran = "add"
			c.RanArgs = args
			return nil
		}},
	}
	opts := &Options{AppName: "test", DefaultFiles: []string{fn}}

	cfg := &testConfig{}
	require.NoError(t, Run(opts, cfg, []string{}, cmds...))
	assert.Equal(t, "run", cfg.Ran)
	assert.Equal(t, "fromfile", cfg.Name)
	assert.Equal(t, 640, cfg.Window.Width)

	cfg = &testConfig{}
	require.NoError(t, Run(opts, cfg, []string{"add", "buy milk", "--name", "flag", "--width", "300"}, cmds...))
	assert.Equal(t, "add", cfg.Ran)
	assert.Equal(t, []string{"buy milk"}, cfg.RanArgs)
	assert.Equal(t, "flag", cfg.Name)
	assert.Equal(t, 300, cfg.Window.Width)
	assert.Equal(t, map[string]string{"name": "flag", "width": "300"}, cfg.Flags)

	cfg = &testConfig{}
	require.NoError(t, Run(opts, cfg, []string{"--config", fn}, cmds...))
	assert.Empty(t, cfg.Flags)

	cfg = &testConfig{}
	assert.Error(t, Run(opts, cfg, []string{"nope"}, cmds...))
}

func TestSetFlags(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, SetFromDefaults(cfg))
	require.NoError(t, SetFlags(cfg, map[string]string{"debug": "true", "width": "320", "unknown": "x"}))
	assert.True(t, cfg.Debug)
	assert.Equal(t, 320, cfg.Window.Width)
	assert.Equal(t, "kanban", cfg.Name)

	assert.Error(t, SetFlags(cfg, map[string]string{"width": "wide"}))
	assert.NoError(t, SetFlags(cfg, nil))
}
