// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration
// structs for the kanban app.
package config

import (
	"time"

	"cogentcore.org/kanban/cli"
	"github.com/jinzhu/copier"
)

// Config is the main config struct that contains
// all of the configuration options for the kanban app.
type Config struct {

	// the config file this config was loaded from, if any
	File string `toml:"-"`

	// the command line flags that override the config file, by name
	Flags map[string]string `toml:"-"`

	// the configuration options for the window
	Window Window

	// the configuration options for the GPU renderer
	Renderer Renderer

	// file system locations used by the app
	Paths Paths

	// the configuration options for sound playback
	Audio Audio

	// the configuration options for the pomodoro timer
	Pomodoro Pomodoro
}

// Window configures the app window.
type Window struct {

	// the initial width of the window in screen coordinates
	Width int `default:"800" flag:"width" desc:"the initial width of the window in screen coordinates"`

	// the initial height of the window in screen coordinates
	Height int `default:"600" flag:"height" desc:"the initial height of the window in screen coordinates"`

	// the title of the window
	Title string `default:"ADD Todo" desc:"the title of the window"`

	// whether the window background is transparent
	Transparent bool `default:"true" desc:"whether the window background is transparent"`

	// whether the window floats above other windows
	Floating bool `default:"true" flag:"floating" desc:"whether the window floats above other windows"`
}

// Renderer configures the GPU renderer.
type Renderer struct {

	// the number of frames that may be in flight on the GPU at once
	FramesInFlight int `default:"2" flag:"frames" desc:"the number of frames that may be in flight on the GPU at once"`

	// enable the Vulkan validation layer and debug messages
	Validation bool `flag:"validation" desc:"enable the Vulkan validation layer and debug messages"`

	// prefer the low-latency mailbox present mode when available
	PreferMailbox bool `default:"true" desc:"prefer the low-latency mailbox present mode when available"`
}

// Paths are the file system locations used by the app.
type Paths struct {

	// the directory containing shaders, sounds, and other resources
	Resources string `default:"./assets/" flag:"resources" desc:"the directory containing shaders, sounds, and other resources"`

	// the SQLite database file; if empty, a platform default is used
	Database string `flag:"db" desc:"the SQLite database file; if empty, a platform default is used"`
}

// Audio configures sound playback.
type Audio struct {

	// the master volume, from 0 to 1
	Volume float64 `default:"1" flag:"volume" desc:"the master volume, from 0 to 1"`

	// whether all sound is muted
	Muted bool `flag:"mute" desc:"whether all sound is muted"`
}

// Pomodoro configures the pomodoro timer durations.
type Pomodoro struct {

	// the length of a work session
	Work time.Duration `default:"25m" desc:"the length of a work session"`

	// the length of a short break
	ShortBreak time.Duration `default:"5m" desc:"the length of a short break"`

	// the length of a long break
	LongBreak time.Duration `default:"15m" desc:"the length of a long break"`
}

// SetConfigFile records the file the config was loaded from.
func (c *Config) SetConfigFile(file string) {
	c.File = file
}

// SetFlags records the command line flags that override the config file.
func (c *Config) SetFlags(flags map[string]string) {
	c.Flags = flags
}

// DatabasePath returns the database file to use, falling back
// on the platform default when none is configured.
func (c *Config) DatabasePath() string {
	if c.Paths.Database != "" {
		return c.Paths.Database
	}
	return DefaultDatabasePath()
}

// Load returns a new config with default values, overridden
// by the values in the given TOML file.
func Load(file string) (*Config, error) {
	c := &Config{}
	if err := cli.SetFromDefaults(c); err != nil {
		return nil, err
	}
	if err := cli.Open(c, file); err != nil {
		return nil, err
	}
	c.File = file
	return c, nil
}

// Apply copies the values of the given config onto c, keeping the
// file c was loaded from and the command line flags that override it.
func (c *Config) Apply(from *Config) error {
	file, flags := c.File, c.Flags
	err := copier.CopyWithOption(c, from, copier.Option{DeepCopy: true})
	c.File, c.Flags = file, flags
	if err != nil {
		return err
	}
	return cli.SetFlags(c, flags)
}
