// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the pre-built lipgloss styles used across the views.
type Theme struct {
	width  int
	height int

	// Chrome
	Title     lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style

	// Messages
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Timestamp       lipgloss.Style

	// Semantics
	ErrorBanner lipgloss.Style
	InfoBanner  lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Muted       lipgloss.Style
}

// NewTheme builds the style set.
func NewTheme() *Theme {
	t := &Theme{}

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		Padding(0, 2).
		Underline(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(AssistantBubbleBorder).
		PaddingLeft(1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(Red).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Red).
		Padding(0, 1)

	t.InfoBanner = lipgloss.NewStyle().
		Foreground(Teal).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1)

	t.Success = lipgloss.NewStyle().Foreground(Green)
	t.Warning = lipgloss.NewStyle().Foreground(Yellow)
	t.Error = lipgloss.NewStyle().Foreground(Red)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)

	return t
}

// SetSize records the terminal dimensions.
func (t *Theme) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Width returns the last recorded terminal width.
func (t *Theme) Width() int {
	return t.width
}
