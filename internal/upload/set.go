// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/telfordlabs/docterm/internal/util"
)

// Admission limits.
const (
	// AcceptedContentType is the single document type the backend ingests.
	AcceptedContentType = "application/pdf"

	// MaxFileSize caps individual files.
	MaxFileSize = 50 * 1024 * 1024 // 50 MiB

	// MaxTrackedItems caps the whole tracked set. A selection that would
	// push past it is rejected in full.
	MaxTrackedItems = 100
)

// Rejection reasons, aggregated per selection event.
const (
	reasonUnsupportedType = "unsupported type"
	reasonTooLarge        = "too large"
	reasonDuplicate       = "duplicate"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// Set tracks upload items. Reads return immutable snapshots; mutations
// replace the backing slice wholesale so concurrent readers never observe a
// half-applied change.
type Set struct {
	mu    sync.RWMutex
	items []Item
}

// NewSet returns an empty tracked set.
func NewSet() *Set {
	return &Set{}
}

// Candidate is a file offered for admission, before validation.
type Candidate struct {
	Name        string
	Size        int64
	ContentType string
	Source      Source
}

// Add validates candidates and appends the ones that pass, in ready status.
// Per-file rejections come back as one aggregate message; an empty string
// means everything was admitted. If the selection would push the set past
// MaxTrackedItems, nothing is admitted and the message says so.
func (s *Set) Add(candidates []Candidate) (admitted int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items)+len(candidates) > MaxTrackedItems {
		return 0, fmt.Sprintf("selection rejected: would exceed the %d tracked file limit", MaxTrackedItems)
	}

	seen := make(map[string]bool, len(s.items))
	for _, it := range s.items {
		seen[dedupeKey(it.Name, it.Size)] = true
	}

	next := append([]Item(nil), s.items...)
	var rejections []string
	for _, c := range candidates {
		reason := ""
		switch {
		case c.ContentType != AcceptedContentType:
			reason = reasonUnsupportedType
		case c.Size > MaxFileSize:
			reason = reasonTooLarge
		case seen[dedupeKey(c.Name, c.Size)]:
			reason = reasonDuplicate
		}
		if reason != "" {
			rejections = append(rejections, fmt.Sprintf("%s: %s", util.TruncateString(c.Name, 40), reason))
			continue
		}
		seen[dedupeKey(c.Name, c.Size)] = true
		next = append(next, NewItem(c.Name, c.Size, c.ContentType, timeNow(), c.Source))
		admitted++
	}
	s.items = next

	if len(rejections) > 0 {
		message = fmt.Sprintf("%d file(s) skipped: %s", len(rejections), strings.Join(rejections, "; "))
	}
	return admitted, message
}

// dedupeKey normalizes the filename to NFC so the same name typed on macOS
// and Linux collides as a duplicate.
func dedupeKey(name string, size int64) string {
	return fmt.Sprintf("%s|%d", norm.NFC.String(name), size)
}

// Items returns a snapshot of the tracked set.
func (s *Set) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of tracked items.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the item with the given id.
func (s *Set) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Update applies fn to the item with the given id, replacing the snapshot.
// Returns false if the item is no longer tracked; callers racing a removal
// use that to drop stale progress updates.
func (s *Set) Update(id string, fn func(Item) Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			next := append([]Item(nil), s.items...)
			next[i] = fn(it)
			s.items = next
			return true
		}
	}
	return false
}

// Remove drops an item from the set.
func (s *Set) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(append([]Item(nil), s.items[:i]...), s.items[i+1:]...)
			return true
		}
	}
	return false
}

// ClearCompleted drops every completed item and returns how many went.
func (s *Set) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.items[:0:0]
	removed := 0
	for _, it := range s.items {
		if it.Status == StatusCompleted {
			removed++
			continue
		}
		next = append(next, it)
	}
	s.items = next
	return removed
}

// Retryable returns a snapshot of items a batch run would pick up.
func (s *Set) Retryable() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Item
	for _, it := range s.items {
		if it.Status.Retryable() {
			out = append(out, it)
		}
	}
	return out
}
