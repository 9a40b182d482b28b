// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/model"
)

// Batch orchestration constants.
const (
	// GroupSize bounds how many items upload concurrently. Groups run
	// strictly one after another.
	GroupSize = 3

	// slotTimeout bounds the presigned-URL request per item.
	slotTimeout = 15 * time.Second

	// registerTimeout bounds the processing registration per item.
	registerTimeout = 30 * time.Second

	// transferIdleTimeout aborts a byte transfer that reports no progress
	// for this long. The transfer itself has no overall deadline.
	transferIdleTimeout = 60 * time.Second
)

// ErrBatchInFlight is returned when UploadAll is invoked while a previous
// invocation is still running.
var ErrBatchInFlight = errors.New("upload batch already in flight")

// Uploader is the slice of the backend client the pipeline needs. The API
// client satisfies it; tests substitute counting fakes.
type Uploader interface {
	GetUploadURL(ctx context.Context, fileName, contentType string) (*api.UploadSlot, error)
	UploadFile(ctx context.Context, uploadURL string, body io.Reader, size int64, contentType string, progress api.ProgressFunc) error
	ProcessDocument(ctx context.Context, key, fileName, contentType string, fileSize int64) (*model.Document, error)
}

// Event notifies the hosting surface of item changes during a run. Events
// are advisory; state of record lives in the Set.
type Event struct {
	ItemID   string
	Status   Status
	Progress int
}

// Result summarizes one batch run.
type Result struct {
	Succeeded int
	Failed    int
}

// Summary renders the one-line outcome message.
func (r Result) Summary() string {
	switch {
	case r.Succeeded == 0 && r.Failed == 0:
		return "nothing to upload"
	case r.Failed == 0:
		return fmt.Sprintf("%d file(s) uploaded", r.Succeeded)
	case r.Succeeded == 0:
		return fmt.Sprintf("%d file(s) failed", r.Failed)
	default:
		return fmt.Sprintf("%d file(s) uploaded, %d failed", r.Succeeded, r.Failed)
	}
}

// Pipeline runs the upload protocol over a Set.
type Pipeline struct {
	set      *Set
	client   Uploader
	inFlight atomic.Bool

	// events receives item transitions during a run. Sends never block: if
	// the receiver lags, intermediate events are dropped and the Set still
	// holds the truth.
	events chan Event
}

// NewPipeline creates a pipeline over set using client for network calls.
func NewPipeline(set *Set, client Uploader) *Pipeline {
	return &Pipeline{
		set:    set,
		client: client,
		events: make(chan Event, 256),
	}
}

// Events returns the notification channel.
func (p *Pipeline) Events() <-chan Event {
	return p.events
}

// Set returns the tracked set the pipeline operates on.
func (p *Pipeline) Set() *Set {
	return p.set
}

// InFlight reports whether a batch run is active.
func (p *Pipeline) InFlight() bool {
	return p.inFlight.Load()
}

// UploadAll runs the upload protocol over every retryable item, in groups
// of GroupSize. Groups are sequential; items within a group run
// concurrently and the group settles fully (successes and failures both)
// before the next group starts. Exactly one Result is returned per
// invocation regardless of mixed outcomes.
//
// A second invocation while one is running returns ErrBatchInFlight. An
// invocation with no retryable items is a no-op returning a zero Result.
func (p *Pipeline) UploadAll(ctx context.Context) (Result, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrBatchInFlight
	}
	defer p.inFlight.Store(false)

	pending := p.set.Retryable()
	if len(pending) == 0 {
		return Result{}, nil
	}

	var result Result
	var mu sync.Mutex

	for start := 0; start < len(pending); start += GroupSize {
		end := start + GroupSize
		if end > len(pending) {
			end = len(pending)
		}
		group := pending[start:end]

		var wg sync.WaitGroup
		for _, it := range group {
			wg.Add(1)
			go func(item Item) {
				defer wg.Done()
				err := p.uploadOne(ctx, item)
				mu.Lock()
				if err != nil {
					result.Failed++
				} else {
					result.Succeeded++
				}
				mu.Unlock()
			}(it)
		}
		wg.Wait()

		if ctx.Err() != nil {
			// Remaining groups are never started; their items stay
			// retryable for the next invocation.
			break
		}
	}

	return result, nil
}

// uploadOne runs the three-step protocol for a single item. Every failure
// is terminal for the item only: it is recorded in the Set and returned,
// never propagated in a way that aborts siblings.
func (p *Pipeline) uploadOne(ctx context.Context, item Item) error {
	// Step 1: presigned slot.
	p.transition(item.ID, StatusGettingURL, 0)

	slotCtx, cancel := context.WithTimeout(ctx, slotTimeout)
	slot, err := p.client.GetUploadURL(slotCtx, item.Name, item.ContentType)
	cancel()
	if err != nil {
		return p.fail(item.ID, err.Error())
	}
	if slot.UploadURL == "" || slot.Key == "" {
		return p.fail(item.ID, "invalid response")
	}

	// Step 2: byte transfer.
	p.transition(item.ID, StatusUploading, 0)

	body, err := item.Source.Open()
	if err != nil {
		return p.fail(item.ID, fmt.Sprintf("open failed: %v", err))
	}

	transferCtx, cancelTransfer := context.WithCancel(ctx)
	watchdog := newIdleWatchdog(transferIdleTimeout, cancelTransfer)
	err = p.client.UploadFile(transferCtx, slot.UploadURL, body, item.Size, item.ContentType,
		func(written, total int64) {
			watchdog.Touch()
			pct := 0
			if total > 0 {
				pct = int(written * 100 / total)
			}
			p.transition(item.ID, StatusUploading, pct)
		})
	watchdog.Stop()
	cancelTransfer()
	body.Close()
	if err != nil {
		if ctx.Err() == nil && transferCtx.Err() != nil {
			return p.fail(item.ID, "transfer stalled")
		}
		return p.fail(item.ID, err.Error())
	}

	// Step 3: processing registration.
	p.transition(item.ID, StatusProcessing, 100)

	regCtx, cancelReg := context.WithTimeout(ctx, registerTimeout)
	_, err = p.client.ProcessDocument(regCtx, slot.Key, item.Name, item.ContentType, item.Size)
	cancelReg()
	if err != nil {
		return p.fail(item.ID, err.Error())
	}

	p.transition(item.ID, StatusCompleted, 100)
	return nil
}

// transition updates the item in the Set and emits an advisory event.
func (p *Pipeline) transition(id string, status Status, progress int) {
	ok := p.set.Update(id, func(it Item) Item {
		it.Status = status
		it.Progress = progress
		if status != StatusFailed {
			it.Error = ""
		}
		return it
	})
	if !ok {
		// Item was removed mid-run; nothing to notify about.
		return
	}
	select {
	case p.events <- Event{ItemID: id, Status: status, Progress: progress}:
	default:
	}
}

// fail marks the item failed with reason and returns an error carrying it.
func (p *Pipeline) fail(id, reason string) error {
	p.set.Update(id, func(it Item) Item {
		it.Status = StatusFailed
		it.Error = reason
		return it
	})
	select {
	case p.events <- Event{ItemID: id, Status: StatusFailed}:
	default:
	}
	return errors.New(reason)
}

// idleWatchdog cancels a transfer that stops making progress.
type idleWatchdog struct {
	timer *time.Timer
	idle  time.Duration
	mu    sync.Mutex
	done  bool
}

func newIdleWatchdog(idle time.Duration, cancel context.CancelFunc) *idleWatchdog {
	w := &idleWatchdog{idle: idle}
	w.timer = time.AfterFunc(idle, cancel)
	return w
}

// Touch resets the idle deadline.
func (w *idleWatchdog) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.done {
		w.timer.Reset(w.idle)
	}
}

// Stop disarms the watchdog.
func (w *idleWatchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.done = true
	w.timer.Stop()
}
