// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"math/rand"
	"time"
)

// =============================================================================
// PACING STRATEGY
// =============================================================================

// Strategy decides how many runes the next step reveals and how long to wait
// before the step after it. Implementations must be safe for use from a
// single goroutine; the replay loop never calls them concurrently.
type Strategy interface {
	// ChunkLen returns the number of runes to reveal next. Values below 1
	// are treated as 1.
	ChunkLen() int

	// Delay returns the pause before the following step.
	Delay() time.Duration
}

const (
	minStepDelay = 20 * time.Millisecond
	maxStepDelay = 70 * time.Millisecond
)

// randomStrategy is the production pacing: mostly single runes with
// occasional bursts, and a uniform delay window. The skew toward small
// chunks is what makes replay look like token streaming instead of paging.
type randomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy returns the default pacing used by the chat surfaces.
func NewRandomStrategy() Strategy {
	return &randomStrategy{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *randomStrategy) ChunkLen() int {
	// 40% one rune, 30% two, 30% three.
	switch r := s.rng.Intn(10); {
	case r < 4:
		return 1
	case r < 7:
		return 2
	default:
		return 3
	}
}

func (s *randomStrategy) Delay() time.Duration {
	span := int64(maxStepDelay - minStepDelay)
	return minStepDelay + time.Duration(s.rng.Int63n(span+1))
}

// FixedStrategy reveals a constant chunk size with a constant delay. Useful
// for tests and for accessibility modes where jitter is unwanted.
type FixedStrategy struct {
	Chunk int
	Pause time.Duration
}

func (s FixedStrategy) ChunkLen() int        { return s.Chunk }
func (s FixedStrategy) Delay() time.Duration { return s.Pause }
