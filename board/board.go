// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package board provides the kanban board model: cards in three
// status columns, grouped into projects, persisted through a [Store].
package board

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Board is the in-memory board. Every change is written through to
// the [Store] first, if there is one, and only applied in memory when
// that succeeds.
type Board struct {

	// Store persists the board; it may be nil for a board that only lives in memory.
	Store Store

	// Cards are all cards, in no particular order; use [Board.Column]
	// for the ordered cards of one column.
	Cards []*Card

	Projects []*Project

	// Now returns the current time; it defaults to [time.Now].
	Now func() time.Time

	lastID int64
}

// New returns a new empty board using the given store.
func New(st Store) *Board {
	return &Board{Store: st, Now: time.Now}
}

// Load replaces the cards and projects with those in the store.
func (b *Board) Load(ctx context.Context) error {
	if b.Store == nil {
		return nil
	}
	cards, err := b.Store.Cards(ctx)
	if err != nil {
		return fmt.Errorf("board: load cards: %w", err)
	}
	projects, err := b.Store.Projects(ctx)
	if err != nil {
		return fmt.Errorf("board: load projects: %w", err)
	}
	b.Cards, b.Projects = cards, projects
	return nil
}

func (b *Board) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// Card returns the card with the given id, or nil.
func (b *Board) Card(id int64) *Card {
	for _, c := range b.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Project returns the project with the given id, or nil.
func (b *Board) Project(id int64) *Project {
	for _, p := range b.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Column returns the cards with the given status, ordered by sequence.
func (b *Board) Column(s Status) []*Card {
	var col []*Card
	for _, c := range b.Cards {
		if c.Status == s {
			col = append(col, c)
		}
	}
	slices.SortStableFunc(col, func(a, b *Card) int {
		return cmp.Or(cmp.Compare(a.Sequence, b.Sequence), cmp.Compare(a.ID, b.ID))
	})
	return col
}

func (b *Board) nextSequence() int {
	seq := 0
	for _, c := range b.Cards {
		seq = max(seq, c.Sequence+1)
	}
	return seq
}

// Add adds a new card at the end of the column for its status.
func (b *Board) Add(ctx context.Context, title, description string, s Status, project int64) (*Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("board: card title is empty")
	}
	if !s.IsValid() {
		return nil, fmt.Errorf("board: invalid status %v", s)
	}
	c := &Card{
		Title:       title,
		Description: description,
		Status:      s,
		Sequence:    b.nextSequence(),
		ProjectID:   project,
		CreatedAt:   b.now(),
	}
	if s == Done {
		c.CompletedAt = c.CreatedAt
	}
	if b.Store != nil {
		if err := b.Store.AddCard(ctx, c); err != nil {
			return nil, fmt.Errorf("board: add card: %w", err)
		}
	} else {
		b.lastID++
		c.ID = b.lastID
	}
	b.lastID = max(b.lastID, c.ID)
	b.Cards = append(b.Cards, c)
	return c, nil
}

// Move moves a card to the end of the column for the given status.
// Moving into [Done] stamps CompletedAt; moving out of it clears it.
func (b *Board) Move(ctx context.Context, id int64, s Status) error {
	c := b.Card(id)
	if c == nil {
		return fmt.Errorf("%w: card %d", ErrNotFound, id)
	}
	if !s.IsValid() {
		return fmt.Errorf("board: invalid status %v", s)
	}
	if c.Status == s {
		return nil
	}
	nc := *c
	nc.Status = s
	nc.Sequence = b.nextSequence()
	if s == Done {
		nc.CompletedAt = b.now()
	} else {
		nc.CompletedAt = time.Time{}
	}
	if err := b.update(ctx, &nc); err != nil {
		return err
	}
	*c = nc
	return nil
}

// Reorder moves a card to the given index within its column,
// shifting the cards in between. The column keeps the same set of
// sequence numbers, so other columns are not affected.
func (b *Board) Reorder(ctx context.Context, id int64, index int) error {
	c := b.Card(id)
	if c == nil {
		return fmt.Errorf("%w: card %d", ErrNotFound, id)
	}
	col := b.Column(c.Status)
	from := slices.Index(col, c)
	index = max(0, min(index, len(col)-1))
	if from == index {
		return nil
	}
	seqs := make([]int, len(col))
	for i, cc := range col {
		seqs[i] = cc.Sequence
		if i > 0 && seqs[i] <= seqs[i-1] {
			seqs[i] = seqs[i-1] + 1
		}
	}
	col = slices.Delete(col, from, from+1)
	col = slices.Insert(col, index, c)
	for i, cc := range col {
		if cc.Sequence == seqs[i] {
			continue
		}
		nc := *cc
		nc.Sequence = seqs[i]
		if err := b.update(ctx, &nc); err != nil {
			return err
		}
		*cc = nc
	}
	return nil
}

// Update writes the given edited copy of a card.
func (b *Board) Update(ctx context.Context, edited *Card) error {
	c := b.Card(edited.ID)
	if c == nil {
		return fmt.Errorf("%w: card %d", ErrNotFound, edited.ID)
	}
	nc := *edited
	if err := b.update(ctx, &nc); err != nil {
		return err
	}
	*c = nc
	return nil
}

func (b *Board) update(ctx context.Context, c *Card) error {
	if b.Store == nil {
		return nil
	}
	if err := b.Store.UpdateCard(ctx, c); err != nil {
		return fmt.Errorf("board: update card %d: %w", c.ID, err)
	}
	return nil
}

// Remove deletes a card.
func (b *Board) Remove(ctx context.Context, id int64) error {
	i := slices.IndexFunc(b.Cards, func(c *Card) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: card %d", ErrNotFound, id)
	}
	if b.Store != nil {
		if err := b.Store.DeleteCard(ctx, id); err != nil {
			return fmt.Errorf("board: delete card %d: %w", id, err)
		}
	}
	b.Cards = slices.Delete(b.Cards, i, i+1)
	return nil
}

// AddProject adds a new active project.
func (b *Board) AddProject(ctx context.Context, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("board: project name is empty")
	}
	p := &Project{Name: name, Status: Active, CreatedAt: b.now()}
	if b.Store != nil {
		if err := b.Store.AddProject(ctx, p); err != nil {
			return nil, fmt.Errorf("board: add project: %w", err)
		}
	} else {
		p.ID = int64(len(b.Projects) + 1)
	}
	b.Projects = append(b.Projects, p)
	return p, nil
}

// SetProjectStatus changes the status of a project.
func (b *Board) SetProjectStatus(ctx context.Context, id int64, s ProjectStatus) error {
	p := b.Project(id)
	if p == nil {
		return fmt.Errorf("%w: project %d", ErrNotFound, id)
	}
	if b.Store != nil {
		if err := b.Store.SetProjectStatus(ctx, id, s); err != nil {
			return fmt.Errorf("board: set project status: %w", err)
		}
	}
	p.Status = s
	return nil
}
