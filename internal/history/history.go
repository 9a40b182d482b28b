// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history records finished upload batches in a local SQLite
// database so `docterm docs --history` and the Documents view can show what
// happened to past uploads without asking the backend.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/telfordlabs/docterm/internal/upload"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at  TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL,
    succeeded   INTEGER NOT NULL,
    failed      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id   INTEGER NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
    file_name  TEXT NOT NULL,
    file_size  INTEGER NOT NULL,
    status     TEXT NOT NULL,
    error      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_batch ON entries(batch_id);
`

// Batch is one recorded pipeline run.
type Batch struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Failed     int
	Entries    []Entry
}

// Entry is one file outcome inside a batch.
type Entry struct {
	FileName string
	FileSize int64
	Status   upload.Status
	Error    string
}

// Log stores batch outcomes.
type Log struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Log{db: db}, nil
}

// DefaultPath returns ~/.docterm/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docterm", "history.db"), nil
}

// Close closes the database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record writes one finished batch with the terminal state of its items.
// Items that never ran (batch cancelled before their group) are skipped.
func (l *Log) Record(ctx context.Context, startedAt time.Time, result upload.Result, items []upload.Item) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO batches (started_at, finished_at, succeeded, failed) VALUES (?, ?, ?, ?)",
		startedAt, time.Now(), result.Succeeded, result.Failed)
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch: %w", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, it := range items {
		if !it.Status.Terminal() {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO entries (batch_id, file_name, file_size, status, error) VALUES (?, ?, ?, ?, ?)",
			batchID, it.Name, it.Size, string(it.Status), it.Error)
		if err != nil {
			return 0, fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return batchID, nil
}

// Recent returns the latest batches with their entries, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, succeeded, failed FROM batches ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.StartedAt, &b.FinishedAt, &b.Succeeded, &b.Failed); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range batches {
		entries, err := l.entries(ctx, batches[i].ID)
		if err != nil {
			return nil, err
		}
		batches[i].Entries = entries
	}
	return batches, nil
}

func (l *Log) entries(ctx context.Context, batchID int64) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT file_name, file_size, status, error FROM entries WHERE batch_id = ? ORDER BY id",
		batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status string
		if err := rows.Scan(&e.FileName, &e.FileSize, &status, &e.Error); err != nil {
			return nil, err
		}
		e.Status = upload.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes batches older than keep, returning how many were removed.
func (l *Log) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		"DELETE FROM batches WHERE finished_at < ?", time.Now().Add(-keep))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}
