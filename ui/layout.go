// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ui lays out the kanban board as colored quads, handles card
// dragging, and records the quads into a frame as a [gpu.Overlay].
package ui

import (
	"cogentcore.org/kanban/board"
	"github.com/chewxy/math32"
)

// Layout metrics, in framebuffer pixels.
const (
	Padding       = 8
	HeaderHeight  = 36
	ColumnSpacing = 10
	BottomPadding = 50
	TitleHeight   = 24
	CardHeight    = 80
	CardInset     = 5
	CardSpacing   = 6
)

// Rect is an axis aligned rectangle with its origin at the top left.
type Rect struct {
	X, Y, W, H float32
}

// Contains returns whether the point is inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float32 {
	return r.Y + r.H
}

// Intersect returns the overlap of r and o, which is empty
// (zero width or height) if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math32.Max(r.X, o.X)
	y0 := math32.Max(r.Y, o.Y)
	x1 := math32.Min(r.X+r.W, o.X+o.W)
	y1 := math32.Min(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: math32.Max(0, x1-x0), H: math32.Max(0, y1-y0)}
}

// Empty returns whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// ColumnBox is the laid out area of one board column.
type ColumnBox struct {
	Column board.Column

	// Rect is the whole column, and the drop zone for it.
	Rect Rect

	// Title is the strip at the top of the column.
	Title Rect

	// Cards are the cards in the column, in order.
	Cards []CardBox
}

// CardBox is the laid out area of one card.
type CardBox struct {
	ID     int64
	Column board.Column
	Index  int
	Rect   Rect
	Color  [4]float32
}

// Layout is the board laid out for one framebuffer size.
type Layout struct {
	Width, Height float32

	// Header is the bar across the top that shows the pomodoro timer.
	Header Rect

	Columns [3]ColumnBox
}

// NewLayout lays out the board for the given framebuffer size. Cards
// that do not fit in their column are left out.
func NewLayout(width, height float32, b *board.Board) *Layout {
	l := &Layout{Width: width, Height: height}
	l.Header = Rect{X: Padding, Y: Padding, W: math32.Max(0, width-2*Padding), H: HeaderHeight}

	top := l.Header.Bottom() + Padding
	avail := math32.Max(0, width-2*Padding)
	cw := math32.Floor(math32.Max(0, avail-2*ColumnSpacing) / 3)
	ch := math32.Max(0, height-top-BottomPadding)
	for i, col := range board.Columns {
		x := Padding + float32(i)*(cw+ColumnSpacing)
		cb := ColumnBox{
			Column: col,
			Rect:   Rect{X: x, Y: top, W: cw, H: ch},
			Title:  Rect{X: x, Y: top, W: cw, H: math32.Min(TitleHeight, ch)},
		}
		y := top + TitleHeight
		for idx, c := range b.Column(col.Status()) {
			if y+CardHeight > cb.Rect.Bottom() {
				break
			}
			cb.Cards = append(cb.Cards, CardBox{
				ID:     c.ID,
				Column: col,
				Index:  idx,
				Rect:   Rect{X: x + CardInset, Y: y, W: math32.Max(0, cw-2*CardInset), H: CardHeight},
				Color:  c.Color(),
			})
			y += CardHeight + CardSpacing
		}
		l.Columns[i] = cb
	}
	return l
}

// HitTest returns the card under the given point, if any.
func (l *Layout) HitTest(x, y float32) (CardBox, bool) {
	for _, cb := range l.Columns {
		if !cb.Rect.Contains(x, y) {
			continue
		}
		for _, c := range cb.Cards {
			if c.Rect.Contains(x, y) {
				return c, true
			}
		}
	}
	return CardBox{}, false
}

// ColumnAt returns the column whose drop zone contains the given point.
func (l *Layout) ColumnAt(x, y float32) (board.Column, bool) {
	for _, cb := range l.Columns {
		if cb.Rect.Contains(x, y) {
			return cb.Column, true
		}
	}
	return 0, false
}

// DropIndex returns the position in the column that a card dropped at
// height y would take: the index of the card under y, or the end of
// the column below the last card.
func (l *Layout) DropIndex(col board.Column, y float32) int {
	cards := l.Columns[col].Cards
	for i, c := range cards {
		if y < c.Rect.Bottom() {
			return i
		}
	}
	return len(cards)
}
