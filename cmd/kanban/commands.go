// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/kanban/base/errors"
	"cogentcore.org/kanban/board"
	"cogentcore.org/kanban/config"
	"cogentcore.org/kanban/store"
	"github.com/muesli/termenv"
)

// stdout is where command output goes.
var stdout io.Writer = os.Stdout

// withBoard runs f on the board loaded from the configured database.
func withBoard(cfg *config.Config, f func(ctx context.Context, b *board.Board) error) error {
	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer func() { errors.Log(st.Close()) }()
	b := board.New(st)
	if err := b.Load(ctx); err != nil {
		return err
	}
	return f(ctx, b)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func add(cfg *config.Config, args []string) error {
	if len(args) == 0 || len(args) > 3 {
		return fmt.Errorf("usage: add TITLE [DESCRIPTION] [STATUS]")
	}
	desc := ""
	if len(args) > 1 {
		desc = args[1]
	}
	status := board.Todo
	if len(args) > 2 {
		s, err := board.ParseStatus(args[2])
		if err != nil {
			return err
		}
		status = s
	}
	return withBoard(cfg, func(ctx context.Context, b *board.Board) error {
		c, err := b.Add(ctx, args[0], desc, status, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "added card %d to %s\n", c.ID, c.Status.Title())
		return nil
	})
}

func list(cfg *config.Config, args []string) error {
	out := termenv.NewOutput(stdout)
	return withBoard(cfg, func(ctx context.Context, b *board.Board) error {
		for _, s := range board.Statuses {
			cards := b.Column(s)
			fmt.Fprintf(stdout, "%s (%d)\n", out.String(s.Title()).Bold(), len(cards))
			for _, c := range cards {
				line := fmt.Sprintf("  %4d  %s", c.ID, c.Title)
				if c.Description != "" {
					line += " - " + c.Description
				}
				if c.Completed() {
					line = out.String(line).Faint().String()
				}
				fmt.Fprintln(stdout, line)
			}
		}
		return nil
	})
}

func move(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: move ID STATUS")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s, err := board.ParseStatus(args[1])
	if err != nil {
		return err
	}
	return withBoard(cfg, func(ctx context.Context, b *board.Board) error {
		return b.Move(ctx, id, s)
	})
}

func remove(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm ID")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withBoard(cfg, func(ctx context.Context, b *board.Board) error {
		return b.Remove(ctx, id)
	})
}

func export(cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: export [FILE]")
	}
	return withBoard(cfg, func(ctx context.Context, b *board.Board) error {
		if len(args) == 0 {
			return b.ExportYAML(stdout)
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := b.ExportYAML(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

func project(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: project add NAME | list | archive ID")
	}
	return withBoard(cfg, func(ctx context.Context, b *board.Board) error {
		switch args[0] {
		case "add":
			if len(args) < 2 {
				return fmt.Errorf("usage: project add NAME")
			}
			p, err := b.AddProject(ctx, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "added project %d\n", p.ID)
		case "list":
			for _, p := range b.Projects {
				fmt.Fprintf(stdout, "%4d  %-8s  %s\n", p.ID, p.Status, p.Name)
			}
		case "archive":
			if len(args) != 2 {
				return fmt.Errorf("usage: project archive ID")
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return b.SetProjectStatus(ctx, id, board.Archived)
		default:
			return fmt.Errorf("unknown project command %q", args[0])
		}
		return nil
	})
}
