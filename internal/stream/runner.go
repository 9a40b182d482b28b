// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// GOROUTINE RUNNER
// =============================================================================

// Runner replays answers on a background goroutine for surfaces without
// their own event loop (the ask and chat CLI commands). Starting a new
// replay cancels the previous one; each replay carries a generation number
// so a stale goroutine can never deliver chunks or completion after it has
// been superseded.
type Runner struct {
	strategy Strategy
	// stepMu serializes strategy calls: a cancelled goroutine may still be
	// inside Next when its replacement starts, and Strategy implementations
	// are not required to be concurrency safe.
	stepMu sync.Mutex
	gen    atomic.Uint64
	cancel context.CancelFunc
}

// NewRunner returns a runner using strategy for pacing.
func NewRunner(strategy Strategy) *Runner {
	return &Runner{strategy: strategy}
}

// Start begins replaying text, invoking emit for every revealed chunk and
// complete exactly once when the final rune lands. A prior in-progress
// replay is cancelled first; its callbacks stop firing even if its goroutine
// is mid-step. Cancellation through ctx or Stop suppresses complete.
func (r *Runner) Start(ctx context.Context, text string, emit func(chunk string), complete func()) {
	if r.cancel != nil {
		r.cancel()
	}
	ctx, r.cancel = context.WithCancel(ctx)

	gen := r.gen.Add(1)
	rep := NewReplay(text)

	go func() {
		if rep.Done() {
			// Empty answer: still complete exactly once.
			if r.gen.Load() == gen && ctx.Err() == nil {
				complete()
			}
			return
		}
		for {
			r.stepMu.Lock()
			chunk, delay, done := rep.Next(r.strategy)
			r.stepMu.Unlock()
			if r.gen.Load() != gen || ctx.Err() != nil {
				return
			}
			emit(chunk)
			if done {
				complete()
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}()
}

// Stop cancels the current replay, if any. Its completion callback will not
// fire.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen.Add(1)
}
