// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package health implements the status dashboard tab: backend component
// health plus aggregate usage counters, refreshed on demand.
package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

type statusLoadedMsg struct {
	health *api.HealthStatus
	stats  *api.ChatStats
	err    error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the health tab.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	health  *api.HealthStatus
	stats   *api.ChatStats
	errText string
	loading bool
}

// New builds the health tab.
func New(theme *styles.Theme, client *api.Client) Model {
	return Model{theme: theme, client: client}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		health, err := client.GetHealthStatus(ctx)
		if err != nil {
			return statusLoadedMsg{err: err}
		}
		// Stats are best effort; the dashboard is still useful without them.
		stats, _ := client.GetChatStats(ctx)
		return statusLoadedMsg{health: health, stats: stats}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.refresh()
		}
	case statusLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.health = msg.health
		m.stats = msg.stats
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Backend status"))
	b.WriteString("\n")

	switch {
	case m.errText != "":
		b.WriteString(m.theme.ErrorBanner.Render(m.errText))
	case m.loading && m.health == nil:
		b.WriteString(m.theme.Muted.Render("  checking..."))
	case m.health == nil:
		b.WriteString(m.theme.Muted.Render("  no status yet, press r to refresh"))
	default:
		b.WriteString(m.renderHealth())
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.Help.Render("r: refresh"))
	return b.String()
}

func (m Model) renderHealth() string {
	var b strings.Builder

	overall := m.statusStyle(m.health.Status).Render(strings.ToUpper(m.health.Status))
	b.WriteString(fmt.Sprintf("  overall %s   version %s   up %s\n\n",
		overall, m.health.Version, formatUptime(m.health.Uptime)))

	for _, c := range m.health.Components {
		line := fmt.Sprintf("  %-14s %s", c.Name, m.statusStyle(c.Status).Render(c.Status))
		if c.Message != "" {
			line += "  " + m.theme.Muted.Render(c.Message)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.stats != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.Title.Render("Usage"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  chats %d   messages %d   documents %d\n",
			m.stats.TotalChats, m.stats.TotalMessages, m.stats.TotalDocuments))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) statusStyle(status string) lipgloss.Style {
	switch status {
	case "ok":
		return m.theme.Success
	case "degraded":
		return m.theme.Warning
	default:
		return m.theme.Error
	}
}

func formatUptime(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd%dh", int(d.Hours())/24, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}
