// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

// Version is the current schema version.
const Version = 4

// baseSchema is version 1. Later columns are added by migrations,
// which skip columns that already exist, so that databases created
// with the later columns already in their base tables open cleanly.
const baseSchema = `
CREATE TABLE IF NOT EXISTS cards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT,
	status INTEGER DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS app_metadata (
	key TEXT PRIMARY KEY,
	value TEXT
);`

type column struct {
	table, name, def string
}

// migrations[v] brings the schema from version v to v+1.
var migrations = map[int][]column{
	1: {
		{"cards", "sequence", "INTEGER NOT NULL DEFAULT 0"},
	},
	2: {
		{"cards", "project", "INTEGER DEFAULT 0"},
		{"projects", "status", "INTEGER DEFAULT 0"},
	},
	3: {
		{"cards", "completed_at", "TIMESTAMP NULL"},
	},
}

func (st *Store) migrate(ctx context.Context) error {
	if _, err := st.DB.ExecContext(ctx, baseSchema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	v, err := st.Version(ctx)
	if err != nil {
		return err
	}
	if v == 0 {
		v = 1
	}
	if v >= Version {
		return nil
	}
	slog.Info("store: migrating database", "from", v, "to", Version, "path", st.Path)
	tx, err := st.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for ; v < Version; v++ {
		for _, col := range migrations[v] {
			if err := addColumn(ctx, tx, col); err != nil {
				return fmt.Errorf("store: migrate to version %d: %w", v+1, err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_cards_sequence ON cards(sequence)`); err != nil {
		return fmt.Errorf("store: create index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO app_metadata (key, value) VALUES ('db_version', ?)`,
		strconv.Itoa(Version)); err != nil {
		return fmt.Errorf("store: set version: %w", err)
	}
	return tx.Commit()
}

func addColumn(ctx context.Context, tx *sql.Tx, col column) error {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, col.table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if name == col.name {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()
	_, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", col.table, col.name, col.def))
	return err
}

// Version returns the schema version recorded in the database,
// or 0 for a new database.
func (st *Store) Version(ctx context.Context) (int, error) {
	var s string
	err := st.DB.QueryRowContext(ctx, `SELECT value FROM app_metadata WHERE key = 'db_version'`).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: read version: %w", err)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("store: bad version %q: %w", s, err)
	}
	return v, nil
}
