// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app runs the kanban window: it owns the board, the pomodoro
// timer, the sound engine, and the renderer, and drives them from the
// window event loop.
package app

import (
	"context"
	"log/slog"
	"time"

	"cogentcore.org/kanban/audio"
	"cogentcore.org/kanban/base/errors"
	"cogentcore.org/kanban/board"
	"cogentcore.org/kanban/config"
	"cogentcore.org/kanban/gpu"
	"cogentcore.org/kanban/gpu/driver"
	"cogentcore.org/kanban/pomodoro"
	"cogentcore.org/kanban/ui"
)

// Sound names and files, relative to the resources directory.
const (
	TimerFinishedSound = "timer_finished"
	TimerFinishedFile  = "sounds/ringtone_fixed.wav"
)

// Window is the app window as seen by the event loop.
type Window interface {
	driver.Window

	// PollEvents processes pending events without blocking.
	PollEvents()

	ShouldClose() bool
	SetShouldClose(close bool)
}

// App is the running application.
type App struct {
	Config   *config.Config
	Board    *board.Board
	Timer    *pomodoro.Timer
	Audio    *audio.Engine
	Renderer *gpu.Renderer
	Watcher  *config.Watcher

	// Layout is the board layout of the last frame.
	Layout *ui.Layout

	Drag     ui.Drag
	DrawList ui.DrawList
	Overlay  *ui.Overlay

	// Now returns the current time; it defaults to [time.Now].
	Now func() time.Time

	win     Window
	release []func()
}

// onClose registers f to run when the app is closed, before
// everything registered earlier.
func (a *App) onClose(f func()) {
	a.release = append(a.release, f)
}

// setup builds the timer and the overlay once the board, audio
// engine, and renderer exist.
func (a *App) setup() {
	if a.Now == nil {
		a.Now = time.Now
	}
	a.Timer = pomodoro.New(durations(a.Config))
	a.Timer.Now = a.Now
	a.Timer.OnFinish = func(t pomodoro.Type) {
		slog.Info("pomodoro finished", "type", t, "completed", a.Timer.Completed)
		errors.Log(a.Audio.PlaySound(TimerFinishedSound, 1, false))
	}
	a.Timer.OnStop = a.Audio.StopAll
	a.Audio.SetMasterVolume(a.Config.Audio.Volume)
	a.Audio.SetMuted(a.Config.Audio.Muted)
	a.Overlay = ui.NewOverlay(&a.DrawList)
}

func durations(c *config.Config) pomodoro.Durations {
	return pomodoro.Durations{
		Work:       c.Pomodoro.Work,
		ShortBreak: c.Pomodoro.ShortBreak,
		LongBreak:  c.Pomodoro.LongBreak,
	}
}

// Run runs the event loop until the window is closed or a frame fails.
func (a *App) Run(ctx context.Context) error {
	for !a.win.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one iteration of the event loop: it processes window
// events and config changes, advances the sound engine and the timer,
// and renders a frame of the board.
func (a *App) Step(ctx context.Context) error {
	a.win.PollEvents()
	a.applyConfigChanges()
	a.Audio.Update()
	a.Timer.Update(a.Now())

	ext := a.Renderer.Swapchain.Extent
	a.Layout = ui.NewLayout(float32(ext.Width), float32(ext.Height), a.Board)
	a.DrawList.Build(a.Layout, &a.Drag, a.Timer)
	_, err := a.Renderer.RenderFrame(a.Overlay)
	return err
}

// applyConfigChanges applies a reloaded config file, if there is one.
// Sound and timer settings take effect immediately; window and
// renderer settings take effect on the next start.
func (a *App) applyConfigChanges() {
	if a.Watcher == nil {
		return
	}
	select {
	case c := <-a.Watcher.Changes:
		a.ApplyConfig(c)
	default:
	}
}

// ApplyConfig copies the given config onto the live one and applies it.
func (a *App) ApplyConfig(c *config.Config) {
	if errors.Log(a.Config.Apply(c)) != nil {
		return
	}
	a.Audio.SetMasterVolume(a.Config.Audio.Volume)
	a.Audio.SetMuted(a.Config.Audio.Muted)
	a.Timer.SetDurations(durations(a.Config))
	slog.Info("config reloaded", "file", a.Config.File)
}

// FramebufferResized is called when the window framebuffer changes size.
func (a *App) FramebufferResized(width, height int) {
	slog.Debug("framebuffer resized", "width", width, "height", height)
	a.Renderer.MarkResized()
}

// MouseDown handles the left button going down at the given
// framebuffer position.
func (a *App) MouseDown(x, y float32) {
	if a.Layout == nil {
		return
	}
	a.Drag.Press(a.Layout, x, y)
}

// MouseMove handles the pointer moving to the given framebuffer position.
func (a *App) MouseMove(x, y float32) {
	a.Drag.Move(x, y)
}

// MouseUp handles the left button going up, dropping any dragged card.
func (a *App) MouseUp(ctx context.Context, x, y float32) {
	if a.Layout == nil {
		a.Drag.Cancel()
		return
	}
	drop, ok := a.Drag.Release(a.Layout, x, y)
	if !ok {
		return
	}
	if err := a.Board.Drop(ctx, drop.Payload, drop.To, drop.Index); err != nil {
		slog.Error("dropping card", "card", drop.Payload.CardID, "to", drop.To, "err", err)
	}
}

// TogglePomodoro starts, pauses, or resumes the timer.
func (a *App) TogglePomodoro() {
	a.Timer.Toggle()
}

// StopPomodoro stops the timer and any sound it started.
func (a *App) StopPomodoro() {
	a.Timer.Stop()
}

// Close asks the event loop to stop.
func (a *App) Close() {
	a.win.SetShouldClose(true)
}

// Destroy releases everything the app owns, in the reverse of the
// order it was created: the config watcher, the renderer, the sound
// engine, the store, the window, and the window system.
func (a *App) Destroy() {
	for i := len(a.release) - 1; i >= 0; i-- {
		a.release[i]()
	}
	a.release = nil
}
