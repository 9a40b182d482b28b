// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch observes an inbox directory and admits dropped files to the
// upload set. It is the terminal analog of browser drag-and-drop: copy a
// PDF into the inbox and it appears in the Documents view, validated and
// ready to upload.
package watch

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/telfordlabs/docterm/internal/upload"
)

// defaultDebounce is how long a file must sit unchanged before admission.
// Copies in progress fire a stream of write events; admitting on the first
// one would upload a truncated file.
const defaultDebounce = 500 * time.Millisecond

// Notice reports the outcome of one admission attempt.
type Notice struct {
	Path     string
	Admitted int
	Message  string
}

// Inbox watches a directory for dropped files.
type Inbox struct {
	dir      string
	set      *upload.Set
	debounce time.Duration
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time

	notices chan Notice
	cancel  context.CancelFunc
}

// NewInbox creates a watcher admitting files from dir into set.
func NewInbox(dir string, set *upload.Set) (*Inbox, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Inbox{
		dir:      dir,
		set:      set,
		debounce: defaultDebounce,
		watcher:  watcher,
		pending:  make(map[string]time.Time),
		notices:  make(chan Notice, 32),
	}, nil
}

// Notices returns the admission outcome channel. Sends never block.
func (in *Inbox) Notices() <-chan Notice {
	return in.notices
}

// Start begins watching. Files already present in the inbox are admitted
// immediately; new arrivals are admitted after they stop changing.
func (in *Inbox) Start(ctx context.Context) error {
	if err := in.watcher.Add(in.dir); err != nil {
		return err
	}
	ctx, in.cancel = context.WithCancel(ctx)

	// Sweep existing files once.
	entries, err := os.ReadDir(in.dir)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				in.admit(filepath.Join(in.dir, e.Name()))
			}
		}
	}

	go in.processEvents(ctx)
	go in.processPending(ctx)
	return nil
}

// Close stops watching and releases resources.
func (in *Inbox) Close() error {
	if in.cancel != nil {
		in.cancel()
	}
	return in.watcher.Close()
}

func (in *Inbox) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			in.mu.Lock()
			in.pending[ev.Name] = time.Now()
			in.mu.Unlock()
		case _, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (in *Inbox) processPending(ctx context.Context) {
	ticker := time.NewTicker(in.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			var ripe []string
			in.mu.Lock()
			for path, last := range in.pending {
				if now.Sub(last) >= in.debounce {
					ripe = append(ripe, path)
					delete(in.pending, path)
				}
			}
			in.mu.Unlock()
			for _, path := range ripe {
				in.admit(path)
			}
		}
	}
}

// admit validates one file and offers it to the upload set.
func (in *Inbox) admit(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	admitted, msg := in.set.Add([]upload.Candidate{{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
		Source:      upload.FileSource{Path: path},
	}})

	select {
	case in.notices <- Notice{Path: path, Admitted: admitted, Message: msg}:
	default:
	}
}
