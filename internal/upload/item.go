// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tracked upload item.
type Status string

const (
	StatusReady      Status = "ready"
	StatusGettingURL Status = "getting-url"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is an end state for a batch run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Retryable reports whether a batch run will pick the item up.
func (s Status) Retryable() bool {
	return s == StatusReady || s == StatusFailed
}

// Source opens the file content for transfer. It is an interface so tests
// and the drop-folder watcher can admit items without touching the disk
// paths the CLI uses.
type Source interface {
	Open() (io.ReadCloser, error)
}

// FileSource reads content from a filesystem path.
type FileSource struct {
	Path string
}

func (f FileSource) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Item is one tracked file. Fields other than the immutable identity are
// only mutated through Set snapshots.
type Item struct {
	ID          string
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
	Source      Source

	Status   Status
	Progress int // 0..100
	Error    string
}

// NewItem creates a ready item for a candidate file.
func NewItem(name string, size int64, contentType string, modTime time.Time, src Source) Item {
	return Item{
		ID:          uuid.NewString(),
		Name:        name,
		Size:        size,
		ContentType: contentType,
		ModTime:     modTime,
		Source:      src,
		Status:      StatusReady,
	}
}

// StatusGlyph returns the single-cell marker shown in listings.
func (i Item) StatusGlyph() string {
	switch i.Status {
	case StatusCompleted:
		return "✓"
	case StatusFailed:
		return "✗"
	case StatusReady:
		return "·"
	default:
		return "…"
	}
}
