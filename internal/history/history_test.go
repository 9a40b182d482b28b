// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/telfordlabs/docterm/internal/upload"
)

func testLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func terminalItem(name string, size int64, status upload.Status, errMsg string) upload.Item {
	it := upload.NewItem(name, size, upload.AcceptedContentType, time.Now(), nil)
	it.Status = status
	it.Error = errMsg
	return it
}

func TestRecordAndRecent(t *testing.T) {
	l := testLog(t)
	ctx := context.Background()

	items := []upload.Item{
		terminalItem("a.pdf", 100, upload.StatusCompleted, ""),
		terminalItem("b.pdf", 200, upload.StatusFailed, "transfer stalled"),
		terminalItem("c.pdf", 300, upload.StatusReady, ""), // never ran
	}
	id, err := l.Record(ctx, time.Now().Add(-time.Minute), upload.Result{Succeeded: 1, Failed: 1}, items)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if id == 0 {
		t.Error("Record returned zero batch id")
	}

	batches, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("Recent returned %d batches, want 1", len(batches))
	}
	b := batches[0]
	if b.Succeeded != 1 || b.Failed != 1 {
		t.Errorf("Batch counters = %d/%d", b.Succeeded, b.Failed)
	}
	if len(b.Entries) != 2 {
		t.Fatalf("Batch has %d entries, want 2 (non-terminal item skipped)", len(b.Entries))
	}
	if b.Entries[1].Error != "transfer stalled" {
		t.Errorf("Entry error = %q", b.Entries[1].Error)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	l := testLog(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.Record(ctx, time.Now(), upload.Result{Succeeded: i}, nil)
		if err != nil {
			t.Fatal(err)
		}
	}

	batches, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(batches) != 2 {
		t.Fatalf("Limit ignored: got %d batches", len(batches))
	}
	if batches[0].Succeeded != 2 || batches[1].Succeeded != 1 {
		t.Errorf("Order wrong: %d then %d", batches[0].Succeeded, batches[1].Succeeded)
	}
}

func TestPrune(t *testing.T) {
	l := testLog(t)
	ctx := context.Background()

	if _, err := l.Record(ctx, time.Now(), upload.Result{Succeeded: 1}, nil); err != nil {
		t.Fatal(err)
	}

	removed, err := l.Prune(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Fresh batch pruned: removed = %d", removed)
	}

	removed, err = l.Prune(ctx, -time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}

	batches, _ := l.Recent(ctx, 10)
	if len(batches) != 0 {
		t.Errorf("Batches remain after prune: %d", len(batches))
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	l.Close()
}
