// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/mattn/go-runewidth"

	"github.com/telfordlabs/docterm/internal/ui/styles"
)

// StatusBar renders a full-width bar with left and right segments.
func StatusBar(theme *styles.Theme, width int, left, right string) string {
	if width <= 0 {
		return ""
	}

	lw := runewidth.StringWidth(left)
	rw := runewidth.StringWidth(right)

	gap := width - lw - rw
	if gap < 1 {
		// Prefer the left segment when space runs out.
		left = runewidth.Truncate(left, width-rw-2, "…")
		lw = runewidth.StringWidth(left)
		gap = width - lw - rw
		if gap < 1 {
			gap = 1
		}
	}

	line := left + spaces(gap) + right
	return theme.StatusBar.Render(line)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
