// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/kanban/board"
	"cogentcore.org/kanban/cli"
	"cogentcore.org/kanban/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd runs the command line against a fresh database in dir and
// returns what it printed.
func runCmd(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = os.Stdout })
	opts := &cli.Options{AppName: "kanban"}
	args = append(args, "--db", filepath.Join(dir, "todos.db"))
	err := cli.Run(opts, &config.Config{}, args, commands[1:]...)
	return buf.String(), err
}

func TestCardCommands(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, dir, "add", "write tests")
	require.NoError(t, err)
	assert.Equal(t, "added card 1 to To Do\n", out)

	out, err = runCmd(t, dir, "add", "ship it", "the release", "in-progress")
	require.NoError(t, err)
	assert.Equal(t, "added card 2 to In Progress\n", out)

	_, err = runCmd(t, dir, "add", "x", "y", "sideways")
	assert.Error(t, err)

	require.NoError(t, errOnly(runCmd(t, dir, "move", "1", "done")))
	out, err = runCmd(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "To Do (0)\nIn Progress (1)\n     2  ship it - the release\nDone (1)\n     1  write tests\n", out)

	require.NoError(t, errOnly(runCmd(t, dir, "rm", "2")))
	assert.Error(t, errOnly(runCmd(t, dir, "rm", "2")))
	assert.Error(t, errOnly(runCmd(t, dir, "move", "one", "done")))

	fn := filepath.Join(dir, "board.yaml")
	require.NoError(t, errOnly(runCmd(t, dir, "export", fn)))
	f, err := os.Open(fn)
	require.NoError(t, err)
	defer f.Close()
	ex, err := board.ReadYAML(f)
	require.NoError(t, err)
	require.Len(t, ex.Cards, 1)
	assert.Equal(t, "write tests", ex.Cards[0].Title)
	assert.Equal(t, board.Done, ex.Cards[0].Status)
}

func TestProjectCommands(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, dir, "project", "add", "home", "office")
	require.NoError(t, err)
	assert.Equal(t, "added project 1\n", out)

	require.NoError(t, errOnly(runCmd(t, dir, "project", "archive", "1")))
	out, err = runCmd(t, dir, "project", "list")
	require.NoError(t, err)
	assert.Equal(t, "   1  Archived  home office\n", out)

	assert.Error(t, errOnly(runCmd(t, dir, "project", "rename")))
	assert.Error(t, errOnly(runCmd(t, dir, "project")))
}

func errOnly(_ string, err error) error {
	return err
}
