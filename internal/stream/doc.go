// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream reveals completed assistant answers incrementally so the
// client reads like a live model stream. The backend returns whole answers;
// Replay walks the text in small rune chunks with randomized pacing, and
// Runner drives that walk on a ticker for non-TUI consumers.
//
// Chunk sizing and pacing sit behind the Strategy interface so tests can
// substitute deterministic values.
package stream
