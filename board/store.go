// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"context"
	"errors"
)

// ErrNotFound is returned for an unknown card or project id.
var ErrNotFound = errors.New("board: not found")

// Store persists cards and projects.
type Store interface {

	// Cards returns all cards ordered by sequence.
	Cards(ctx context.Context) ([]*Card, error)

	// AddCard inserts the card, setting its ID and CreatedAt.
	AddCard(ctx context.Context, c *Card) error

	// UpdateCard writes all fields of an existing card.
	UpdateCard(ctx context.Context, c *Card) error

	DeleteCard(ctx context.Context, id int64) error

	// Projects returns all projects ordered by id.
	Projects(ctx context.Context) ([]*Project, error)

	// AddProject inserts the project, setting its ID and CreatedAt.
	AddProject(ctx context.Context, p *Project) error

	SetProjectStatus(ctx context.Context, id int64, s ProjectStatus) error

	Close() error
}
