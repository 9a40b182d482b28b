// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for docterm.
//
// It contains the atomic file writer used by every package that persists
// state (config, token store, chat cache) and rune-safe string helpers for
// terminal display.
package util
