// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/kanban/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenMigrates(t *testing.T) {
	st := openTest(t)
	v, err := st.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Version, v)
}

func TestCards(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)
	created := time.Date(2025, 8, 25, 9, 30, 0, 0, time.UTC)

	a := &board.Card{Title: "a", Description: "first", Sequence: 1, CreatedAt: created}
	b := &board.Card{Title: "b", Status: board.InProgress, Sequence: 0, ProjectID: 3}
	require.NoError(t, st.AddCard(ctx, a))
	require.NoError(t, st.AddCard(ctx, b))
	assert.NotZero(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	cards, err := st.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "b", cards[0].Title, "ordered by sequence")
	assert.Equal(t, int64(3), cards[0].ProjectID)
	assert.Equal(t, board.InProgress, cards[0].Status)
	assert.Equal(t, "first", cards[1].Description)
	assert.Equal(t, created, cards[1].CreatedAt)
	assert.True(t, cards[1].CompletedAt.IsZero())

	done := time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC)
	a.Status = board.Done
	a.CompletedAt = done
	require.NoError(t, st.UpdateCard(ctx, a))
	cards, err = st.Cards(ctx)
	require.NoError(t, err)
	assert.Equal(t, board.Done, cards[1].Status)
	assert.Equal(t, done, cards[1].CompletedAt)

	require.NoError(t, st.DeleteCard(ctx, b.ID))
	assert.ErrorIs(t, st.DeleteCard(ctx, b.ID), board.ErrNotFound)
	assert.ErrorIs(t, st.UpdateCard(ctx, b), board.ErrNotFound)
	cards, err = st.Cards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestProjects(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)
	p := &board.Project{Name: "home", Status: board.Active}
	require.NoError(t, st.AddProject(ctx, p))
	require.NoError(t, st.SetProjectStatus(ctx, p.ID, board.Archived))
	assert.ErrorIs(t, st.SetProjectStatus(ctx, 99, board.Active), board.ErrNotFound)

	projects, err := st.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "home", projects[0].Name)
	assert.Equal(t, board.Archived, projects[0].Status)
	assert.False(t, projects[0].CreatedAt.IsZero())
}

func TestBoardWithStore(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)
	b := board.New(st)
	for _, title := range []string{"a", "b", "c"} {
		_, err := b.Add(ctx, title, "", board.Todo, 0)
		require.NoError(t, err)
	}
	require.NoError(t, b.Move(ctx, 1, board.Done))
	require.NoError(t, b.Reorder(ctx, 3, 0))

	loaded := board.New(st)
	require.NoError(t, loaded.Load(ctx))
	var todo []string
	for _, c := range loaded.Column(board.Todo) {
		todo = append(todo, c.Title)
	}
	assert.Equal(t, []string{"c", "b"}, todo)
	require.Len(t, loaded.Column(board.Done), 1)
	assert.False(t, loaded.Column(board.Done)[0].CompletedAt.IsZero())
}

// TestMigrateExisting opens a version 0 database whose base tables
// already have some of the later columns, as older releases created them.
func TestMigrateExisting(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE cards (
		id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, description TEXT,
		status INTEGER DEFAULT 0, sequence INTEGER NOT NULL DEFAULT 0, project INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP);
		INSERT INTO cards (title, status, sequence) VALUES ('old', 1, 5);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	st, err := Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()
	v, err := st.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, Version, v)

	cards, err := st.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "old", cards[0].Title)
	assert.Equal(t, board.InProgress, cards[0].Status)
	assert.Equal(t, 5, cards[0].Sequence)
	assert.False(t, cards[0].CreatedAt.IsZero(), "default timestamp is parsed")
	assert.True(t, cards[0].CompletedAt.IsZero())

	// reopening an up to date database changes nothing
	require.NoError(t, st.Close())
	st, err = Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}
