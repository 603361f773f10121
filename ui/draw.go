// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ui

import (
	"cogentcore.org/kanban/pomodoro"
)

// Colors of the board chrome, as straight (not premultiplied) RGBA.
var (
	BackgroundColor = [4]float32{0.06, 0.06, 0.08, 0.85}
	HeaderColor     = [4]float32{0.14, 0.14, 0.18, 1}
	ColumnColor     = [4]float32{0.1, 0.1, 0.13, 0.9}
	TitleColor      = [4]float32{0.2, 0.2, 0.26, 1}
	DropColor       = [4]float32{1, 1, 1, 0.12}
	WorkColor       = [4]float32{0.85, 0.3, 0.25, 1}
	BreakColor      = [4]float32{0.25, 0.7, 0.4, 1}
	FinishedColor   = [4]float32{0.95, 0.8, 0.2, 1}
)

// Quad is one filled rectangle.
type Quad struct {
	Rect  Rect
	Color [4]float32
}

// DrawList is the list of quads drawn in a frame, back to front.
type DrawList struct {
	Quads []Quad
}

// Reset empties the list, keeping its storage.
func (dl *DrawList) Reset() {
	dl.Quads = dl.Quads[:0]
}

// Add adds a quad, skipping it if it has no area.
func (dl *DrawList) Add(r Rect, color [4]float32) {
	if r.Empty() {
		return
	}
	dl.Quads = append(dl.Quads, Quad{Rect: r, Color: color})
}

// Build fills the list with the board in the given layout, the
// pomodoro timer (which may be nil) in the header, and the drag state.
func (dl *DrawList) Build(l *Layout, d *Drag, timer *pomodoro.Timer) {
	dl.Reset()
	dl.Add(Rect{W: l.Width, H: l.Height}, BackgroundColor)
	dl.Add(l.Header, HeaderColor)
	if timer != nil {
		dl.Add(timerBar(l.Header, timer))
	}
	dragging := d != nil && d.State == Dragging
	for _, cb := range l.Columns {
		dl.Add(cb.Rect, ColumnColor)
		dl.Add(cb.Title, TitleColor)
		if dragging && cb.Rect.Contains(d.X, d.Y) {
			dl.Add(cb.Rect, DropColor)
		}
		for _, c := range cb.Cards {
			color := c.Color
			if dragging && c.ID == d.Card.ID {
				color[3] *= 0.35
			}
			dl.Add(c.Rect, color)
		}
	}
	if dragging {
		dl.Add(d.Preview().Intersect(Rect{W: l.Width, H: l.Height}), d.Card.Color)
	}
}

// timerBar returns the progress bar of the timer inside the header:
// it fills as the period runs out.
func timerBar(header Rect, t *pomodoro.Timer) (Rect, [4]float32) {
	total := t.Durations.Of(t.Type)
	frac := float32(1)
	if total > 0 {
		frac = 1 - float32(t.Remaining().Seconds()/total.Seconds())
	}
	if t.State == pomodoro.Stopped {
		frac = 0
	}
	frac = min(max(frac, 0), 1)
	bar := Rect{X: header.X + 4, Y: header.Bottom() - 8, W: (header.W - 8) * frac, H: 4}
	switch {
	case t.Finished:
		return bar, FinishedColor
	case t.Type == pomodoro.Work:
		return bar, WorkColor
	}
	return bar, BreakColor
}
