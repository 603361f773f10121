// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command kanban is a floating desktop kanban board with a pomodoro timer.
// Run without a command it opens the board window; the other commands
// edit the board from the terminal.
package main

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"cogentcore.org/kanban/app"
	"cogentcore.org/kanban/cli"
	"cogentcore.org/kanban/config"
)

func init() {
	// glfw and the Vulkan surface must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	opts := &cli.Options{
		AppName:      "kanban",
		AppAbout:     "is a floating kanban board with a pomodoro timer",
		DefaultFiles: config.DefaultFiles,
	}
	if err := cli.Run(opts, &config.Config{}, os.Args[1:], commands...); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

var commands = []*cli.Cmd[*config.Config]{
	{Name: "run", Doc: "open the board window", Root: true, Func: run},
	{Name: "add", Doc: "add a card: add TITLE [DESCRIPTION] [STATUS]", Func: add},
	{Name: "list", Doc: "list the cards in each column", Func: list},
	{Name: "move", Doc: "move a card to a column: move ID STATUS", Func: move},
	{Name: "rm", Doc: "remove a card: rm ID", Func: remove},
	{Name: "export", Doc: "write the board as YAML: export [FILE]", Func: export},
	{Name: "project", Doc: "manage projects: project add NAME | list | archive ID", Func: project},
}

func run(cfg *config.Config, args []string) error {
	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Destroy()
	return a.Run(ctx)
}
