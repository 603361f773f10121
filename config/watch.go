// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it changes on disk.
// The reloaded configs are delivered on [Watcher.Changes] and must be
// applied on the thread that owns the config.
type Watcher struct {

	// Changes receives a freshly loaded config after each change.
	Changes chan *Config

	file    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the given config file. The directory is
// watched rather than the file itself, so that editors that replace
// the file on save are handled.
func Watch(file string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		Changes: make(chan *Config, 1),
		file:    abs,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.watch()
	return w, nil
}

func (w *Watcher) watch() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.file || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			c, err := Load(w.file)
			if err != nil {
				slog.Warn("config reload failed", "file", w.file, "err", err)
				continue
			}
			// only the latest config matters
			select {
			case <-w.Changes:
			default:
			}
			w.Changes <- c
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher", "err", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
