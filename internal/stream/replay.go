// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import "time"

// =============================================================================
// REPLAY STATE
// =============================================================================

// Replay walks a finished answer from start to end in rune chunks. It holds
// no timers itself; the caller advances it with Next and schedules the
// returned delay however the host surface prefers (tea.Tick in the TUI,
// time.Sleep in the CLI runner).
type Replay struct {
	source []rune
	cursor int
	done   bool
}

// NewReplay prepares a replay over text. An empty answer is already done.
func NewReplay(text string) *Replay {
	r := &Replay{source: []rune(text)}
	if len(r.source) == 0 {
		r.done = true
	}
	return r
}

// Next reveals the next chunk and reports the pause before the following
// step. done flips to true on the step that reveals the final rune; callers
// must treat that transition as the single completion signal. Calling Next
// after completion returns an empty chunk and done=true without advancing.
func (r *Replay) Next(s Strategy) (chunk string, delay time.Duration, done bool) {
	if r.done {
		return "", 0, true
	}

	n := s.ChunkLen()
	if n < 1 {
		n = 1
	}
	if remaining := len(r.source) - r.cursor; n > remaining {
		n = remaining
	}

	chunk = string(r.source[r.cursor : r.cursor+n])
	r.cursor += n

	if r.cursor >= len(r.source) {
		r.done = true
		return chunk, 0, true
	}
	return chunk, s.Delay(), false
}

// Displayed returns the portion revealed so far.
func (r *Replay) Displayed() string {
	return string(r.source[:r.cursor])
}

// Done reports whether the full answer has been revealed.
func (r *Replay) Done() bool {
	return r.done
}

// Remaining returns the rune count not yet revealed.
func (r *Replay) Remaining() int {
	return len(r.source) - r.cursor
}

// Finish reveals everything left in one step. Used when the user skips the
// animation.
func (r *Replay) Finish() string {
	r.cursor = len(r.source)
	r.done = true
	return string(r.source)
}
