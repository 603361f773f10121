// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ui

import (
	"cogentcore.org/kanban/board"
	"github.com/chewxy/math32"
)

// DragThreshold is how far the pointer must move with the button held
// before a press on a card becomes a drag.
const DragThreshold = 4

// DragState is the state of a [Drag].
type DragState int32

const (
	// Idle is when no button is held over a card.
	Idle DragState = iota

	// Pressed is when the button went down on a card but has not
	// moved far enough to start a drag.
	Pressed

	// Dragging is when a card is being dragged.
	Dragging
)

// Drop is a completed drag: the dragged card and where it landed.
type Drop struct {
	Payload board.DragPayload
	To      board.Column
	Index   int
}

// Drag tracks dragging a card with the mouse.
type Drag struct {
	State   DragState
	Payload board.DragPayload

	// Card is the box of the card when the drag started.
	Card CardBox

	// StartX, StartY is where the button went down, and X, Y is the
	// current pointer position.
	StartX, StartY float32
	X, Y           float32
}

// Press starts tracking a press at the given point, returning whether
// it landed on a card.
func (d *Drag) Press(l *Layout, x, y float32) bool {
	c, ok := l.HitTest(x, y)
	if !ok {
		d.State = Idle
		return false
	}
	d.State = Pressed
	d.Card = c
	d.Payload = board.DragPayload{CardID: c.ID, From: c.Column, Index: c.Index}
	d.StartX, d.StartY = x, y
	d.X, d.Y = x, y
	return true
}

// Move updates the pointer position, starting the drag once it has
// moved far enough from the press.
func (d *Drag) Move(x, y float32) {
	d.X, d.Y = x, y
	if d.State == Pressed && math32.Max(math32.Abs(x-d.StartX), math32.Abs(y-d.StartY)) >= DragThreshold {
		d.State = Dragging
	}
}

// Release ends the drag at the given point. It returns the drop if a
// card was being dragged and the point is over a column.
func (d *Drag) Release(l *Layout, x, y float32) (Drop, bool) {
	d.X, d.Y = x, y
	dragging := d.State == Dragging
	d.State = Idle
	if !dragging {
		return Drop{}, false
	}
	col, ok := l.ColumnAt(x, y)
	if !ok {
		return Drop{}, false
	}
	idx := l.DropIndex(col, y)
	if col == d.Payload.From && idx >= len(l.Columns[col].Cards) {
		idx = max(len(l.Columns[col].Cards)-1, 0)
	}
	return Drop{Payload: d.Payload, To: col, Index: idx}, true
}

// Cancel abandons any drag in progress.
func (d *Drag) Cancel() {
	d.State = Idle
}

// Preview returns where the dragged card is drawn: the original card
// box offset by the pointer movement.
func (d *Drag) Preview() Rect {
	r := d.Card.Rect
	r.X += d.X - d.StartX
	r.Y += d.Y - d.StartY
	return r
}
