// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"context"
	"fmt"
)

// Column identifies one of the three board columns as a drag source
// or drop target.
type Column int32

const (
	TodoColumn Column = iota
	InProgressColumn
	DoneColumn
)

// Columns are all columns, left to right.
var Columns = []Column{TodoColumn, InProgressColumn, DoneColumn}

// ColumnOf returns the column that shows cards with the given status.
func ColumnOf(s Status) Column {
	switch s {
	case Todo:
		return TodoColumn
	case InProgress:
		return InProgressColumn
	case Done:
		return DoneColumn
	}
	panic(fmt.Sprintf("board: no column for %v", s))
}

// Status returns the status of the cards in the column.
func (c Column) Status() Status {
	switch c {
	case TodoColumn:
		return Todo
	case InProgressColumn:
		return InProgress
	case DoneColumn:
		return Done
	}
	panic(fmt.Sprintf("board: invalid column %d", int32(c)))
}

func (c Column) String() string {
	switch c {
	case TodoColumn:
		return "TodoColumn"
	case InProgressColumn:
		return "InProgressColumn"
	case DoneColumn:
		return "DoneColumn"
	}
	return fmt.Sprintf("Column(%d)", int32(c))
}

// DragPayload is the data carried while a card is dragged.
type DragPayload struct {
	CardID int64

	// From is the column the drag started in.
	From Column

	// Index is the position of the card in its column when the drag started.
	Index int
}

// Drop applies a drop of the dragged card onto a column at the given
// index. A drop on the source column reorders the card within it;
// a drop on another column moves the card there.
func (b *Board) Drop(ctx context.Context, p DragPayload, to Column, index int) error {
	switch to {
	case TodoColumn, InProgressColumn, DoneColumn:
	default:
		return fmt.Errorf("board: drop on invalid column %d", int32(to))
	}
	if to == p.From {
		if index == p.Index {
			return nil
		}
		return b.Reorder(ctx, p.CardID, index)
	}
	return b.Move(ctx, p.CardID, to.Status())
}
