// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cogentcore.org/kanban/audio"
	"cogentcore.org/kanban/base/errors"
	"cogentcore.org/kanban/board"
	"cogentcore.org/kanban/config"
	"cogentcore.org/kanban/gpu"
	"cogentcore.org/kanban/gpu/vkgpu"
	"cogentcore.org/kanban/pomodoro"
	"cogentcore.org/kanban/store"
	"cogentcore.org/kanban/ui"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow adapts a glfw window to [Window]. The embedded window
// also provides the Vulkan surface.
type glfwWindow struct {
	*glfw.Window
}

func (w *glfwWindow) FramebufferSize() (int, int) {
	return w.GetFramebufferSize()
}

func (w *glfwWindow) WaitEvents() {
	glfw.WaitEvents()
}

func (w *glfwWindow) PollEvents() {
	glfw.PollEvents()
}

// scale returns the framebuffer pixels per screen coordinate.
func (w *glfwWindow) scale() (float32, float32) {
	fw, fh := w.GetFramebufferSize()
	ww, wh := w.GetSize()
	if ww == 0 || wh == 0 {
		return 1, 1
	}
	return float32(fw) / float32(ww), float32(fh) / float32(wh)
}

// cursor returns the cursor position in framebuffer pixels.
func (w *glfwWindow) cursor(x, y float64) (float32, float32) {
	sx, sy := w.scale()
	return float32(x) * sx, float32(y) * sy
}

// New opens the board database and the window, and builds the sound
// engine and the renderer. It must be called on the main thread.
// On error, everything built so far has been released.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	if err := a.init(ctx); err != nil {
		a.Destroy()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("app: initializing glfw: %w", err)
	}
	a.onClose(glfw.Terminate)
	if err := vkgpu.Init(); err != nil {
		return fmt.Errorf("app: loading vulkan: %w", err)
	}

	glfw.WindowHint(glfw.ScaleToMonitor, glfw.False)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfwBool(cfg.Window.Transparent))
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Floating, glfwBool(cfg.Window.Floating))
	gw, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("app: creating window: %w", err)
	}
	a.onClose(gw.Destroy)
	win := &glfwWindow{Window: gw}
	a.win = win

	st, err := store.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return err
	}
	a.onClose(func() { errors.Log(st.Close()) })
	a.Board = board.New(st)
	if err := a.Board.Load(ctx); err != nil {
		return err
	}

	var out audio.Output
	if sp, err := audio.NewSpeaker(audio.SampleRate); err != nil {
		slog.Error("app: no audio output, sounds are disabled", "err", err)
		out = audio.Discard{}
	} else {
		out = sp
	}
	a.Audio = audio.NewEngine(os.DirFS(cfg.Paths.Resources), out)
	a.onClose(func() { errors.Log(a.Audio.Close()) })
	if err := a.Audio.Load(TimerFinishedSound, TimerFinishedFile); err != nil {
		slog.Error("app: loading sound", "err", err)
	}

	r, err := gpu.NewRenderer(vkgpu.Driver{}, win, &gpu.Config{
		App: gpu.AppConfig{
			Name:               cfg.Window.Title,
			Validation:         cfg.Renderer.Validation,
			InstanceExtensions: gw.GetRequiredInstanceExtensions(),
		},
		FramesInFlight:   cfg.Renderer.FramesInFlight,
		PreferMailbox:    cfg.Renderer.PreferMailbox,
		Assets:           os.DirFS(cfg.Paths.Resources),
		VertexShader:     ui.VertexShader,
		FragmentShader:   ui.FragmentShader,
		PushConstantSize: ui.PushConstantSize,
	})
	if err != nil {
		return err
	}
	a.Renderer = r
	a.onClose(r.Destroy)
	a.setup()

	if cfg.File != "" {
		if w, err := config.Watch(cfg.File); err != nil {
			slog.Warn("app: not watching config file", "file", cfg.File, "err", err)
		} else {
			a.Watcher = w
			a.onClose(func() { errors.Log(w.Close()) })
		}
	}
	a.setCallbacks(ctx, win)
	return nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func (a *App) setCallbacks(ctx context.Context, win *glfwWindow) {
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		a.FramebufferResized(width, height)
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		a.MouseMove(win.cursor(x, y))
	})
	win.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := win.cursor(gw.GetCursorPos())
		switch action {
		case glfw.Press:
			a.MouseDown(x, y)
		case glfw.Release:
			a.MouseUp(ctx, x, y)
		}
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeySpace:
			a.TogglePomodoro()
		case glfw.KeyBackspace:
			a.StopPomodoro()
		case glfw.Key1:
			a.Timer.SetType(pomodoro.Work)
		case glfw.Key2:
			a.Timer.SetType(pomodoro.ShortBreak)
		case glfw.Key3:
			a.Timer.SetType(pomodoro.LongBreak)
		case glfw.KeyEscape:
			a.Close()
		}
	})
}
