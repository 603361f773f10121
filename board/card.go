// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import "time"

// Card is one to-do item.
type Card struct {
	ID          int64  `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Status      Status `yaml:"status"`

	// Sequence orders cards within a column; lower comes first.
	Sequence int `yaml:"sequence"`

	// ProjectID is the project the card belongs to, or 0 for none.
	ProjectID int64 `yaml:"project,omitempty"`

	CreatedAt time.Time `yaml:"created"`

	// CompletedAt is when the card was moved to [Done]; zero otherwise.
	CompletedAt time.Time `yaml:"completed,omitempty"`
}

// Completed reports whether the card is done.
func (c *Card) Completed() bool {
	return c.Status == Done
}

var (
	doneColor    = [4]float32{0.2, 0.8, 0.2, 1}
	pendingColor = [4]float32{0.3, 0.3, 0.8, 1}
)

// Color returns the RGBA fill color of the card: green when done, blue otherwise.
func (c *Card) Color() [4]float32 {
	if c.Completed() {
		return doneColor
	}
	return pendingColor
}

// Project groups cards.
type Project struct {
	ID        int64         `yaml:"id"`
	Name      string        `yaml:"name"`
	Status    ProjectStatus `yaml:"status"`
	CreatedAt time.Time     `yaml:"created"`
}
