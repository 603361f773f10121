// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli runs commands on a config struct, whose values come
// from `default:` tags, a TOML config file, and command line flags,
// in that order of increasing precedence.
package cli

import (
	"fmt"
	"os"
	"strings"

	"cogentcore.org/kanban/base/logx"
	"github.com/spf13/pflag"
)

// Options contains the options passed to [Run].
type Options struct {

	// AppName is the name of the app, used in usage messages.
	AppName string

	// AppAbout is a one-line description of the app.
	AppAbout string

	// DefaultFiles are the config files to look for, in order,
	// when no --config flag is given.
	DefaultFiles []string
}

// Cmd is a command that can be run on a config object of type T.
type Cmd[T any] struct {

	// Name is the name of the command, as typed on the command line.
	Name string

	// Doc is a one-line description of the command.
	Doc string

	// Root indicates that this command runs when no command is given.
	Root bool

	// Func runs the command with the positional arguments that
	// follow the command name.
	Func func(cfg T, args []string) error
}

// Run configures the given config object from its defaults, its config
// file, and the given command line arguments (typically os.Args[1:]),
// and then runs the command named by the first positional argument.
// It also sets [logx.UserLevel] from the -v, --vv, and -q flags.
func Run[T any](opts *Options, cfg T, args []string, cmds ...*Cmd[T]) error {
	if err := SetFromDefaults(cfg); err != nil {
		return err
	}
	fs := pflag.NewFlagSet(opts.AppName, pflag.ContinueOnError)
	fs.SetInterspersed(true)
	var configFile string
	var vv, v, q, help bool
	fs.StringVar(&configFile, "config", "", "the TOML config file to load")
	fs.BoolVar(&vv, "vv", false, "show debug log messages")
	fs.BoolVarP(&v, "verbose", "v", false, "show info log messages")
	fs.BoolVarP(&q, "quiet", "q", false, "only show error log messages")
	fs.BoolVarP(&help, "help", "h", false, "show usage information")
	if err := AddFlags(fs, cfg); err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if vv || v || q {
		logx.UserLevel = logx.LevelFromFlags(vv, v, q)
	}
	logx.SetDefaultLogger()

	if configFile == "" {
		configFile = FindConfigFile(opts.DefaultFiles...)
	}
	// explicit flags take precedence over the config file
	set := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "config", "vv", "verbose", "quiet", "help":
		default:
			set[f.Name] = f.Value.String()
		}
	})
	if configFile != "" {
		if err := Open(cfg, configFile); err != nil {
			return err
		}
		if err := SetFlags(cfg, set); err != nil {
			return err
		}
		if c, ok := any(cfg).(interface{ SetConfigFile(string) }); ok {
			c.SetConfigFile(configFile)
		}
	}
	if c, ok := any(cfg).(interface{ SetFlags(map[string]string) }); ok {
		c.SetFlags(set)
	}

	pos := fs.Args()
	name := ""
	if len(pos) > 0 {
		name = pos[0]
		pos = pos[1:]
	}
	if help || name == "help" {
		fmt.Fprint(os.Stdout, Usage(opts, fs, cmds...))
		return nil
	}
	for _, c := range cmds {
		if c.Name == name || (name == "" && c.Root) {
			if err := c.Func(cfg, pos); err != nil {
				return fmt.Errorf("error running command %q: %w", c.Name, err)
			}
			return nil
		}
	}
	fmt.Fprint(os.Stderr, Usage(opts, fs, cmds...))
	return fmt.Errorf("command %q not found", name)
}

// Usage returns the usage string for the given commands and flags.
func Usage[T any](opts *Options, fs *pflag.FlagSet, cmds ...*Cmd[T]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\nUsage:\n  %s [command] [arguments] [flags]\n\nCommands:\n", opts.AppName, opts.AppAbout, opts.AppName)
	for _, c := range cmds {
		root := ""
		if c.Root {
			root = " (default)"
		}
		fmt.Fprintf(&b, "  %-10s %s%s\n", c.Name, c.Doc, root)
	}
	b.WriteString("\nFlags:\n")
	b.WriteString(fs.FlagUsages())
	return b.String()
}
