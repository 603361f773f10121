// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ui

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"testing"
	"testing/fstest"
	"time"

	"cogentcore.org/kanban/board"
	"cogentcore.org/kanban/gpu"
	"cogentcore.org/kanban/gpu/driver"
	"cogentcore.org/kanban/gpu/gputest"
	"cogentcore.org/kanban/pomodoro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, todo, inProgress, done int) *board.Board {
	t.Helper()
	b := board.New(nil)
	ctx := context.Background()
	add := func(n int, s board.Status) {
		for i := range n {
			_, err := b.Add(ctx, fmt.Sprintf("%v %d", s, i), "", s, 0)
			require.NoError(t, err)
		}
	}
	add(todo, board.Todo)
	add(inProgress, board.InProgress)
	add(done, board.Done)
	return b
}

func TestLayout(t *testing.T) {
	b := newTestBoard(t, 2, 0, 1)
	l := NewLayout(800, 600, b)
	assert.Equal(t, Rect{X: 8, Y: 8, W: 784, H: 36}, l.Header)
	assert.Equal(t, Rect{X: 8, Y: 52, W: 254, H: 498}, l.Columns[board.TodoColumn].Rect)
	assert.Equal(t, Rect{X: 272, Y: 52, W: 254, H: 498}, l.Columns[board.InProgressColumn].Rect)
	assert.Equal(t, Rect{X: 536, Y: 52, W: 254, H: 498}, l.Columns[board.DoneColumn].Rect)

	todo := l.Columns[board.TodoColumn].Cards
	require.Len(t, todo, 2)
	assert.Equal(t, Rect{X: 13, Y: 76, W: 244, H: 80}, todo[0].Rect)
	assert.Equal(t, Rect{X: 13, Y: 162, W: 244, H: 80}, todo[1].Rect)
	assert.Equal(t, 1, todo[1].Index)
	assert.Empty(t, l.Columns[board.InProgressColumn].Cards)

	done := l.Columns[board.DoneColumn].Cards
	require.Len(t, done, 1)
	assert.Equal(t, [4]float32{0.2, 0.8, 0.2, 1}, done[0].Color)
	assert.Equal(t, board.DoneColumn, done[0].Column)
}

func TestLayoutClipsCards(t *testing.T) {
	l := NewLayout(800, 600, newTestBoard(t, 7, 0, 0))
	assert.Len(t, l.Columns[board.TodoColumn].Cards, 5)

	l = NewLayout(10, 10, newTestBoard(t, 1, 0, 0))
	assert.Empty(t, l.Columns[board.TodoColumn].Cards)
	assert.Zero(t, l.Columns[board.TodoColumn].Rect.W)
}

func TestHitTest(t *testing.T) {
	b := newTestBoard(t, 2, 1, 0)
	l := NewLayout(800, 600, b)

	c, ok := l.HitTest(20, 100)
	require.True(t, ok)
	assert.Equal(t, b.Column(board.Todo)[0].ID, c.ID)

	_, ok = l.HitTest(20, 159)
	assert.False(t, ok, "gap between cards")

	c, ok = l.HitTest(300, 200)
	assert.False(t, ok)
	c, ok = l.HitTest(300, 100)
	require.True(t, ok)
	assert.Equal(t, board.InProgressColumn, c.Column)

	col, ok := l.ColumnAt(300, 400)
	require.True(t, ok)
	assert.Equal(t, board.InProgressColumn, col)
	_, ok = l.ColumnAt(4, 300)
	assert.False(t, ok)
	_, ok = l.ColumnAt(266, 300)
	assert.False(t, ok, "spacing between columns")

	assert.Equal(t, 0, l.DropIndex(board.TodoColumn, 80))
	assert.Equal(t, 1, l.DropIndex(board.TodoColumn, 160))
	assert.Equal(t, 2, l.DropIndex(board.TodoColumn, 400))
}

func TestDragToOtherColumn(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, 2, 0, 0)
	l := NewLayout(800, 600, b)
	id := b.Column(board.Todo)[1].ID

	var d Drag
	require.True(t, d.Press(l, 20, 170))
	assert.Equal(t, board.DragPayload{CardID: id, From: board.TodoColumn, Index: 1}, d.Payload)
	d.Move(22, 171)
	assert.Equal(t, Pressed, d.State)
	d.Move(400, 300)
	assert.Equal(t, Dragging, d.State)
	assert.Equal(t, Rect{X: 393, Y: 292, W: 244, H: 80}, d.Preview())

	drop, ok := d.Release(l, 600, 300)
	require.True(t, ok)
	assert.Equal(t, Idle, d.State)
	assert.Equal(t, board.DoneColumn, drop.To)

	require.NoError(t, b.Drop(ctx, drop.Payload, drop.To, drop.Index))
	assert.Equal(t, board.Done, b.Card(id).Status)
	assert.False(t, b.Card(id).CompletedAt.IsZero())
}

func TestDragReorder(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, 3, 0, 0)
	l := NewLayout(800, 600, b)
	first := b.Column(board.Todo)[0].ID

	var d Drag
	require.True(t, d.Press(l, 20, 80))
	d.Move(20, 500)
	drop, ok := d.Release(l, 20, 500)
	require.True(t, ok)
	assert.Equal(t, board.TodoColumn, drop.To)
	assert.Equal(t, 2, drop.Index, "below the last card is the last position")

	require.NoError(t, b.Drop(ctx, drop.Payload, drop.To, drop.Index))
	assert.Equal(t, first, b.Column(board.Todo)[2].ID)
}

func TestDragWithoutMove(t *testing.T) {
	l := NewLayout(800, 600, newTestBoard(t, 1, 0, 0))
	var d Drag
	assert.False(t, d.Press(l, 400, 5))
	require.True(t, d.Press(l, 20, 80))
	_, ok := d.Release(l, 20, 80)
	assert.False(t, ok, "a click is not a drop")

	require.True(t, d.Press(l, 20, 80))
	d.Move(20, 590)
	_, ok = d.Release(l, 20, 590)
	assert.False(t, ok, "released outside every column")

	require.True(t, d.Press(l, 20, 80))
	d.Move(300, 300)
	d.Cancel()
	_, ok = d.Release(l, 300, 300)
	assert.False(t, ok)
}

func TestDrawList(t *testing.T) {
	l := NewLayout(800, 600, newTestBoard(t, 2, 1, 0))
	var dl DrawList
	dl.Build(l, nil, nil)
	// background, header, 3 columns and titles, 3 cards
	require.Len(t, dl.Quads, 11)
	assert.Equal(t, Quad{Rect: Rect{W: 800, H: 600}, Color: BackgroundColor}, dl.Quads[0])
	assert.Equal(t, HeaderColor, dl.Quads[1].Color)

	var d Drag
	require.True(t, d.Press(l, 20, 80))
	d.Move(300, 300)
	dl.Build(l, &d, nil)
	require.Len(t, dl.Quads, 13, "drop highlight and preview")
	last := dl.Quads[len(dl.Quads)-1]
	assert.Equal(t, d.Card.Color, last.Color)
	assert.Equal(t, d.Preview(), last.Rect)

	dl.Add(Rect{W: 0, H: 10}, HeaderColor)
	assert.Len(t, dl.Quads, 13, "empty quads are skipped")
}

func TestTimerBar(t *testing.T) {
	l := NewLayout(800, 600, newTestBoard(t, 0, 0, 0))
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	tm := pomodoro.New(pomodoro.Durations{Work: 10 * time.Second})
	tm.Now = func() time.Time { return now }

	var dl DrawList
	dl.Build(l, nil, tm)
	assert.Len(t, dl.Quads, 8, "a stopped timer has an empty bar")

	tm.Start()
	tm.Update(now.Add(5 * time.Second))
	dl.Build(l, nil, tm)
	require.Len(t, dl.Quads, 9)
	bar := dl.Quads[2]
	assert.Equal(t, Rect{X: 12, Y: 36, W: 388, H: 4}, bar.Rect)
	assert.Equal(t, WorkColor, bar.Color)

	tm.Update(now.Add(20 * time.Second))
	dl.Build(l, nil, tm)
	assert.Equal(t, FinishedColor, dl.Quads[2].Color)
	assert.Equal(t, float32(776), dl.Quads[2].Rect.W)
}

// recordingCmd keeps the push constant data it is given.
type recordingCmd struct {
	driver.CommandBuffer
	pushes [][]byte
	draws  int
}

func (rc *recordingCmd) PushConstants(p driver.Pipeline, offset uint32, data []byte) {
	rc.pushes = append(rc.pushes, append([]byte(nil), data...))
}

func (rc *recordingCmd) Draw(vertexCount, instanceCount uint32) {
	if vertexCount == 6 && instanceCount == 1 {
		rc.draws++
	}
}

func floats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func TestOverlayRecord(t *testing.T) {
	dl := &DrawList{}
	dl.Add(Rect{X: 1, Y: 2, W: 3, H: 4}, [4]float32{0.1, 0.2, 0.3, 0.4})
	dl.Add(Rect{X: 5, Y: 6, W: 7, H: 8}, [4]float32{1, 1, 1, 1})
	ov := NewOverlay(dl)
	cmd := &recordingCmd{}
	require.NoError(t, ov.Record(cmd, &gpu.Pipeline{}, driver.Extent{Width: 800, Height: 600}))
	assert.Equal(t, 2, cmd.draws)
	require.Len(t, cmd.pushes, 2)
	assert.Equal(t, []float32{1, 2, 3, 4, 0.1, 0.2, 0.3, 0.4, 800, 600, 0, 0}, floats(cmd.pushes[0]))
	assert.Equal(t, []float32{5, 6, 7, 8, 1, 1, 1, 1, 800, 600, 0, 0}, floats(cmd.pushes[1]))

	cmd = &recordingCmd{}
	require.NoError(t, ov.Record(cmd, &gpu.Pipeline{}, driver.Extent{}))
	assert.Zero(t, cmd.draws, "nothing is drawn to an empty extent")
}

func TestOverlayFrame(t *testing.T) {
	spirv := make([]byte, 20)
	binary.LittleEndian.PutUint32(spirv, gpu.SPIRVMagic)
	win := gputest.NewWindow(&gputest.Log{}, [2]int{800, 600})
	drv := gputest.NewDriver(win)
	r, err := gpu.NewRenderer(drv, win, &gpu.Config{
		App:              gpu.AppConfig{Name: "ui test"},
		FramesInFlight:   2,
		Assets:           fstest.MapFS{VertexShader: {Data: spirv}, FragmentShader: {Data: spirv}},
		VertexShader:     VertexShader,
		FragmentShader:   FragmentShader,
		PushConstantSize: PushConstantSize,
	})
	require.NoError(t, err)
	defer r.Destroy()

	var dl DrawList
	dl.Build(NewLayout(800, 600, newTestBoard(t, 1, 0, 0)), nil, nil)
	ok, err := r.RenderFrame(NewOverlay(&dl))
	require.NoError(t, err)
	require.True(t, ok)

	cmds := r.Frames.Slots[0].Cmd.(*gputest.CommandBuffer).Commands
	n := 0
	for _, c := range cmds {
		if c == "PushConstants 0 48" {
			n++
		}
	}
	assert.Equal(t, len(dl.Quads), n)
	assert.Equal(t, "EndRenderPass", cmds[len(cmds)-1])
}
