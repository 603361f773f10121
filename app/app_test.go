// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"cogentcore.org/kanban/audio"
	"cogentcore.org/kanban/board"
	"cogentcore.org/kanban/cli"
	"cogentcore.org/kanban/config"
	"cogentcore.org/kanban/gpu"
	"cogentcore.org/kanban/gpu/gputest"
	"cogentcore.org/kanban/pomodoro"
	"cogentcore.org/kanban/ui"
	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWindow is a mock window whose events are functions run by PollEvents.
type testWindow struct {
	*gputest.Window
	polls  int
	closed bool
	onPoll func(n int)
}

func (w *testWindow) PollEvents() {
	w.polls++
	if w.onPoll != nil {
		w.onPoll(w.polls)
	}
}

func (w *testWindow) ShouldClose() bool         { return w.closed }
func (w *testWindow) SetShouldClose(close bool) { w.closed = close }

// heldOutput accepts streams and never pulls them, so voices stay live.
type heldOutput struct {
	sync.Mutex
	mixer beep.Mixer
}

func (o *heldOutput) SampleRate() beep.SampleRate { return audio.SampleRate }
func (o *heldOutput) Play(s beep.Streamer)        { o.mixer.Add(s) }
func (o *heldOutput) Clear()                      { o.mixer.Clear() }

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func newTestApp(t *testing.T) (*App, *testWindow, *gputest.Driver, *clock) {
	t.Helper()
	ctx := context.Background()
	cfg := &config.Config{}
	require.NoError(t, cli.SetFromDefaults(cfg))
	cfg.Pomodoro.Work = 2 * time.Second

	b := board.New(nil)
	for _, title := range []string{"write", "test"} {
		_, err := b.Add(ctx, title, "", board.Todo, 0)
		require.NoError(t, err)
	}

	eng := audio.NewEngine(fstest.MapFS{}, &heldOutput{})
	eng.Add(TimerFinishedSound, beep.Silence(100), beep.Format{SampleRate: audio.SampleRate, NumChannels: 2, Precision: 2})

	spirv := make([]byte, 20)
	binary.LittleEndian.PutUint32(spirv, gpu.SPIRVMagic)
	win := &testWindow{Window: gputest.NewWindow(&gputest.Log{}, [2]int{800, 600})}
	drv := gputest.NewDriver(win.Window)
	r, err := gpu.NewRenderer(drv, win, &gpu.Config{
		App:              gpu.AppConfig{Name: "app test"},
		FramesInFlight:   cfg.Renderer.FramesInFlight,
		PreferMailbox:    cfg.Renderer.PreferMailbox,
		Assets:           fstest.MapFS{ui.VertexShader: {Data: spirv}, ui.FragmentShader: {Data: spirv}},
		VertexShader:     ui.VertexShader,
		FragmentShader:   ui.FragmentShader,
		PushConstantSize: ui.PushConstantSize,
	})
	require.NoError(t, err)

	c := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	a := &App{Config: cfg, Board: b, Audio: eng, Renderer: r, Now: c.now, win: win}
	a.onClose(r.Destroy)
	a.setup()
	t.Cleanup(a.Destroy)
	return a, win, drv, c
}

func TestStep(t *testing.T) {
	a, win, drv, _ := newTestApp(t)
	require.NoError(t, a.Step(context.Background()))
	assert.Equal(t, 1, win.polls)
	require.NotNil(t, a.Layout)
	assert.Equal(t, float32(800), a.Layout.Width)
	assert.Len(t, a.Layout.Columns[board.TodoColumn].Cards, 2)
	assert.NotEmpty(t, a.DrawList.Quads)
	assert.Equal(t, 1, drv.Devices[0].Device.Presents)
}

func TestRunUntilClosed(t *testing.T) {
	a, win, drv, _ := newTestApp(t)
	win.onPoll = func(n int) {
		if n == 3 {
			a.Close()
		}
	}
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 3, win.polls)
	assert.Equal(t, 3, drv.Devices[0].Device.Presents, "the frame of the closing poll is still drawn")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	win.closed = false
	assert.ErrorIs(t, a.Run(ctx), context.Canceled)
}

func TestDragCard(t *testing.T) {
	ctx := context.Background()
	a, _, _, _ := newTestApp(t)
	id := a.Board.Column(board.Todo)[0].ID

	a.MouseDown(20, 80)
	assert.Equal(t, ui.Idle, a.Drag.State, "no layout before the first frame")

	require.NoError(t, a.Step(ctx))
	a.MouseDown(20, 80)
	a.MouseMove(300, 200)
	assert.Equal(t, ui.Dragging, a.Drag.State)
	require.NoError(t, a.Step(ctx))
	a.MouseUp(ctx, 300, 200)
	assert.Equal(t, board.InProgress, a.Board.Card(id).Status)
	assert.Equal(t, ui.Idle, a.Drag.State)
}

func TestPomodoroRingtone(t *testing.T) {
	ctx := context.Background()
	a, _, _, c := newTestApp(t)
	a.TogglePomodoro()
	assert.Equal(t, pomodoro.Running, a.Timer.State)

	c.t = c.t.Add(time.Second)
	require.NoError(t, a.Step(ctx))
	assert.Equal(t, "00:01", a.Timer.RemainingString())
	assert.False(t, a.Audio.IsPlaying(TimerFinishedSound))

	c.t = c.t.Add(time.Second)
	require.NoError(t, a.Step(ctx))
	assert.Equal(t, pomodoro.Complete, a.Timer.State)
	assert.Equal(t, 1, a.Timer.Completed)
	assert.True(t, a.Audio.IsPlaying(TimerFinishedSound))

	a.StopPomodoro()
	assert.Zero(t, a.Audio.Playing(), "stopping the timer stops the ringtone")
	assert.Equal(t, pomodoro.Stopped, a.Timer.State)
}

func TestResize(t *testing.T) {
	ctx := context.Background()
	a, win, _, _ := newTestApp(t)
	require.NoError(t, a.Step(ctx))

	win.Resize(1024, 768)
	a.FramebufferResized(1024, 768)
	require.NoError(t, a.Step(ctx))
	assert.Equal(t, 1, a.Renderer.Swapchain.Generation)
	assert.Equal(t, float32(800), a.Layout.Width, "laid out before the swapchain was rebuilt")

	require.NoError(t, a.Step(ctx))
	assert.Equal(t, float32(1024), a.Layout.Width)
	assert.Equal(t, float32(768), a.Layout.Height)
}

func TestApplyConfig(t *testing.T) {
	a, _, _, _ := newTestApp(t)
	c := &config.Config{}
	require.NoError(t, cli.SetFromDefaults(c))
	c.Audio.Volume = 0.5
	c.Audio.Muted = true
	c.Pomodoro.Work = time.Minute
	a.ApplyConfig(c)
	assert.Equal(t, 0.5, a.Audio.MasterVolume())
	assert.True(t, a.Audio.IsMuted())
	assert.Equal(t, time.Minute, a.Timer.Remaining())
}

func TestApplyConfigKeepsFlags(t *testing.T) {
	a, _, _, _ := newTestApp(t)
	a.Config.SetFlags(map[string]string{"mute": "true"})
	a.Config.Audio.Muted = true
	a.Audio.SetMuted(true)

	// a reload of a file that does not mute
	c := &config.Config{}
	require.NoError(t, cli.SetFromDefaults(c))
	c.Audio.Volume = 0.5
	a.ApplyConfig(c)
	assert.True(t, a.Audio.IsMuted(), "--mute outlives the reload")
	assert.Equal(t, 0.5, a.Audio.MasterVolume())
}

func TestDestroyOrder(t *testing.T) {
	a := &App{}
	var order []string
	for _, name := range []string{"glfw", "window", "store", "audio", "renderer"} {
		a.onClose(func() { order = append(order, name) })
	}
	a.Destroy()
	assert.Equal(t, []string{"renderer", "audio", "store", "window", "glfw"}, order)
	a.Destroy()
	assert.Len(t, order, 5)
}
