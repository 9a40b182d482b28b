// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/telfordlabs/docterm/internal/model"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(m.theme.ErrorBanner.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("> ")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) helpLine() string {
	switch {
	case m.waiting:
		return m.spin.View() + m.theme.Muted.Render(" thinking...")
	case m.replay != nil:
		return m.theme.Help.Render("esc: show full answer")
	default:
		return m.theme.Help.Render("enter: send • ctrl+n: new chat • tab: switch view")
	}
}

// syncViewport re-renders the transcript and pins the view to the bottom.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if m.chat == nil || len(m.chat.Messages) == 0 {
		return m.theme.Muted.Render("No messages yet. Ask something about your documents.")
	}

	var b strings.Builder
	for i, msg := range m.chat.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMessage(msg model.Message) string {
	label := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	switch msg.Role {
	case model.RoleUser:
		header := m.theme.UserBubble.Bold(true).Render("You") + " " + label
		return header + "\n" + m.theme.UserBubble.Render(msg.Content)
	default:
		header := m.theme.AssistantBubble.Bold(true).Render(msg.Role.DisplayName()) + " " + label
		body := msg.Content
		if body == "" && msg.FullContent == "" {
			return header + "\n" + m.theme.AssistantBubble.Render(m.theme.Muted.Render("..."))
		}
		rendered := strings.TrimRight(m.renderer.Render(body), "\n")
		return header + "\n" + m.theme.AssistantBubble.Render(rendered)
	}
}
