// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store implements [board.Store] on an SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cogentcore.org/kanban/board"
	_ "modernc.org/sqlite"
)

// timeLayout matches SQLite's CURRENT_TIMESTAMP.
const timeLayout = "2006-01-02 15:04:05"

// Store is an SQLite backed [board.Store].
type Store struct {
	DB *sql.DB

	// Path is the database file, or ":memory:".
	Path string
}

var _ board.Store = (*Store)(nil)

// Open opens (creating if needed) the database at the given path,
// and migrates it to the current schema version.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// all access is from one goroutine, and an in-memory
	// database only exists on its one connection
	db.SetMaxOpenConns(1)
	st := &Store{DB: db, Path: path}
	if err := st.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (st *Store) Close() error {
	return st.DB.Close()
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	slog.Warn("store: unparseable timestamp", "value", s)
	return time.Time{}
}

func (st *Store) Cards(ctx context.Context) ([]*board.Card, error) {
	rows, err := st.DB.QueryContext(ctx, `SELECT id, title, IFNULL(description, ''), status, sequence,
		IFNULL(project, 0), IFNULL(CAST(created_at AS TEXT), ''), IFNULL(CAST(completed_at AS TEXT), '')
		FROM cards ORDER BY sequence ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: query cards: %w", err)
	}
	defer rows.Close()
	var cards []*board.Card
	for rows.Next() {
		c := &board.Card{}
		var status int
		var created, completed string
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &status, &c.Sequence,
			&c.ProjectID, &created, &completed); err != nil {
			return nil, fmt.Errorf("store: scan card: %w", err)
		}
		c.Status = board.StatusFromInt(status)
		c.CreatedAt = parseTime(created)
		c.CompletedAt = parseTime(completed)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (st *Store) AddCard(ctx context.Context, c *board.Card) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	res, err := st.DB.ExecContext(ctx, `INSERT INTO cards
		(title, description, status, sequence, project, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Title, c.Description, int(c.Status), c.Sequence, c.ProjectID,
		formatTime(c.CreatedAt), formatTime(c.CompletedAt))
	if err != nil {
		return fmt.Errorf("store: insert card: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (st *Store) UpdateCard(ctx context.Context, c *board.Card) error {
	res, err := st.DB.ExecContext(ctx, `UPDATE cards SET title = ?, description = ?, status = ?,
		sequence = ?, project = ?, completed_at = ? WHERE id = ?`,
		c.Title, c.Description, int(c.Status), c.Sequence, c.ProjectID,
		formatTime(c.CompletedAt), c.ID)
	if err != nil {
		return fmt.Errorf("store: update card %d: %w", c.ID, err)
	}
	return affected(res, "card", c.ID)
}

func (st *Store) DeleteCard(ctx context.Context, id int64) error {
	res, err := st.DB.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete card %d: %w", id, err)
	}
	return affected(res, "card", id)
}

func affected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", board.ErrNotFound, kind, id)
	}
	return nil
}

func (st *Store) Projects(ctx context.Context) ([]*board.Project, error) {
	rows, err := st.DB.QueryContext(ctx, `SELECT id, name, IFNULL(status, 0),
		IFNULL(CAST(created_at AS TEXT), '') FROM projects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: query projects: %w", err)
	}
	defer rows.Close()
	var projects []*board.Project
	for rows.Next() {
		p := &board.Project{}
		var status int
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &status, &created); err != nil {
			return nil, fmt.Errorf("store: scan project: %w", err)
		}
		p.Status = board.ProjectStatusFromInt(status)
		p.CreatedAt = parseTime(created)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (st *Store) AddProject(ctx context.Context, p *board.Project) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	res, err := st.DB.ExecContext(ctx, `INSERT INTO projects (name, status, created_at) VALUES (?, ?, ?)`,
		p.Name, int(p.Status), formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("store: insert project: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (st *Store) SetProjectStatus(ctx context.Context, id int64, s board.ProjectStatus) error {
	res, err := st.DB.ExecContext(ctx, `UPDATE projects SET status = ? WHERE id = ?`, int(s), id)
	if err != nil {
		return fmt.Errorf("store: update project %d: %w", id, err)
	}
	return affected(res, "project", id)
}
