// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components holds small render helpers shared by the views.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/telfordlabs/docterm/internal/ui/styles"
)

var (
	progressFill  = lipgloss.NewStyle().Foreground(styles.Indigo)
	progressTrack = lipgloss.NewStyle().Foreground(styles.Overlay)
)

// ProgressBar renders a percent bar of the given cell width.
func ProgressBar(percent float64, width int) string {
	if width < 4 {
		width = 4
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	b.WriteString(progressFill.Render(strings.Repeat("█", filled)))
	b.WriteString(progressTrack.Render(strings.Repeat("░", width-filled)))
	b.WriteString(fmt.Sprintf(" %3.0f%%", percent))
	return b.String()
}
