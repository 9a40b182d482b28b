// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// REPLAY TESTS
// =============================================================================

func TestReplayRevealsEverything(t *testing.T) {
	lengths := []int{0, 1, 50, 5000}
	for _, l := range lengths {
		src := strings.Repeat("x", l)
		rep := NewReplay(src)
		strat := FixedStrategy{Chunk: 3}

		var out strings.Builder
		completions := 0
		for !rep.Done() {
			chunk, _, done := rep.Next(strat)
			out.WriteString(chunk)
			if done {
				completions++
			}
		}

		if out.String() != src {
			t.Errorf("len=%d: reassembled %d runes, want %d", l, out.Len(), l)
		}
		if l > 0 && completions != 1 {
			t.Errorf("len=%d: done reported %d times, want 1", l, completions)
		}
		if rep.Displayed() != src {
			t.Errorf("len=%d: Displayed() disagrees with source", l)
		}
	}
}

func TestReplayEmptyIsDone(t *testing.T) {
	rep := NewReplay("")
	if !rep.Done() {
		t.Error("Empty replay should start done")
	}
	chunk, _, done := rep.Next(FixedStrategy{Chunk: 1})
	if chunk != "" || !done {
		t.Errorf("Next on empty replay = (%q, %v)", chunk, done)
	}
}

func TestReplayRuneSafety(t *testing.T) {
	// Chunks must never split a multi-byte rune.
	src := "héllo wörld — 日本語テスト"
	rep := NewReplay(src)
	var out strings.Builder
	for !rep.Done() {
		chunk, _, _ := rep.Next(FixedStrategy{Chunk: 2})
		if !strings.ContainsRune(src, []rune(chunk)[0]) {
			t.Fatalf("Chunk %q contains bytes not in source", chunk)
		}
		out.WriteString(chunk)
	}
	if out.String() != src {
		t.Errorf("Reassembled = %q, want %q", out.String(), src)
	}
}

func TestReplayFinalStepNoDelay(t *testing.T) {
	rep := NewReplay("abc")
	_, delay, done := rep.Next(FixedStrategy{Chunk: 10, Pause: time.Second})
	if !done {
		t.Fatal("Oversized chunk should finish in one step")
	}
	if delay != 0 {
		t.Errorf("Final step delay = %v, want 0", delay)
	}
}

func TestReplayChunkFloor(t *testing.T) {
	rep := NewReplay("ab")
	chunk, _, _ := rep.Next(FixedStrategy{Chunk: 0})
	if chunk != "a" {
		t.Errorf("Zero chunk size should clamp to 1, revealed %q", chunk)
	}
}

func TestReplayFinish(t *testing.T) {
	rep := NewReplay("hello world")
	rep.Next(FixedStrategy{Chunk: 2})
	full := rep.Finish()
	if full != "hello world" || !rep.Done() || rep.Remaining() != 0 {
		t.Errorf("Finish left replay in state done=%v remaining=%d", rep.Done(), rep.Remaining())
	}
}

// =============================================================================
// STRATEGY TESTS
// =============================================================================

func TestRandomStrategyBounds(t *testing.T) {
	s := NewRandomStrategy()
	for i := 0; i < 1000; i++ {
		if n := s.ChunkLen(); n < 1 || n > 3 {
			t.Fatalf("ChunkLen() = %d, want 1..3", n)
		}
		if d := s.Delay(); d < minStepDelay || d > maxStepDelay {
			t.Fatalf("Delay() = %v, want %v..%v", d, minStepDelay, maxStepDelay)
		}
	}
}

// =============================================================================
// RUNNER TESTS
// =============================================================================

func TestRunnerDeliversAndCompletesOnce(t *testing.T) {
	r := NewRunner(FixedStrategy{Chunk: 5, Pause: time.Millisecond})

	var mu sync.Mutex
	var out strings.Builder
	completions := 0
	done := make(chan struct{})

	r.Start(context.Background(), "the quick brown fox",
		func(chunk string) {
			mu.Lock()
			out.WriteString(chunk)
			mu.Unlock()
		},
		func() {
			mu.Lock()
			completions++
			mu.Unlock()
			close(done)
		})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Replay never completed")
	}

	mu.Lock()
	defer mu.Unlock()
	if out.String() != "the quick brown fox" {
		t.Errorf("Delivered %q", out.String())
	}
	if completions != 1 {
		t.Errorf("complete fired %d times, want 1", completions)
	}
}

func TestRunnerEmptyTextStillCompletes(t *testing.T) {
	r := NewRunner(FixedStrategy{Chunk: 1, Pause: time.Millisecond})
	done := make(chan struct{})
	r.Start(context.Background(), "", func(string) {
		t.Error("emit should not fire for empty text")
	}, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Empty replay never completed")
	}
}

func TestRunnerRestartSuppressesStale(t *testing.T) {
	r := NewRunner(FixedStrategy{Chunk: 1, Pause: 10 * time.Millisecond})

	var mu sync.Mutex
	var out strings.Builder
	firstCompleted := false

	r.Start(context.Background(), strings.Repeat("a", 100),
		func(chunk string) {
			mu.Lock()
			out.WriteString(chunk)
			mu.Unlock()
		},
		func() {
			mu.Lock()
			firstCompleted = true
			mu.Unlock()
		})

	time.Sleep(25 * time.Millisecond)

	done := make(chan struct{})
	r.Start(context.Background(), "bb",
		func(chunk string) {
			mu.Lock()
			out.WriteString(chunk)
			mu.Unlock()
		},
		func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Second replay never completed")
	}
	// Give the stale goroutine time to misbehave if it were going to.
	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if firstCompleted {
		t.Error("Superseded replay fired its completion callback")
	}
	if !strings.HasSuffix(out.String(), "bb") {
		t.Errorf("Second replay output missing: %q", out.String())
	}
	if strings.Contains(out.String()[strings.Index(out.String(), "bb"):], "a") {
		t.Errorf("Stale chunks arrived after restart: %q", out.String())
	}
}

func TestRunnerStopSuppressesCompletion(t *testing.T) {
	r := NewRunner(FixedStrategy{Chunk: 1, Pause: 10 * time.Millisecond})
	completed := make(chan struct{}, 1)
	r.Start(context.Background(), strings.Repeat("x", 50),
		func(string) {}, func() { completed <- struct{}{} })

	time.Sleep(20 * time.Millisecond)
	r.Stop()

	select {
	case <-completed:
		t.Error("complete fired after Stop")
	case <-time.After(700 * time.Millisecond):
	}
}

func TestRunnerRapidRestartSharedPacing(t *testing.T) {
	// Rapid restarts leave cancelled goroutines mid-step while their
	// replacements begin stepping with the same shared pacing strategy.
	// The runner must keep those steps serialized; run with -race.
	r := NewRunner(NewRandomStrategy())
	long := strings.Repeat("overlap", 2000)

	ctx := context.Background()
	for i := 0; i < 200; i++ {
		r.Start(ctx, long, func(string) {}, func() {})
	}

	var out strings.Builder
	done := make(chan struct{})
	r.Start(ctx, "final answer", func(chunk string) {
		out.WriteString(chunk)
	}, func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("final replay did not complete")
	}
	if out.String() != "final answer" {
		t.Errorf("displayed %q, want %q", out.String(), "final answer")
	}
	r.Stop()
}
