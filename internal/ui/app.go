// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui hosts the root application model: three tabs over one shared
// API client, with session expiry surfaced across all of them.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/history"
	"github.com/telfordlabs/docterm/internal/storage"
	"github.com/telfordlabs/docterm/internal/ui/chat"
	"github.com/telfordlabs/docterm/internal/ui/components"
	"github.com/telfordlabs/docterm/internal/ui/documents"
	"github.com/telfordlabs/docterm/internal/ui/health"
	"github.com/telfordlabs/docterm/internal/ui/styles"
	"github.com/telfordlabs/docterm/internal/upload"
	"github.com/telfordlabs/docterm/internal/watch"
)

// =============================================================================
// TABS
// =============================================================================

type tab int

const (
	tabChat tab = iota
	tabDocuments
	tabHealth
	tabCount
)

func (t tab) title() string {
	switch t {
	case tabChat:
		return "Chat"
	case tabDocuments:
		return "Documents"
	default:
		return "Status"
	}
}

// sessionExpiredMsg is posted when any API call comes back 401.
type sessionExpiredMsg struct{}

// =============================================================================
// APP MODEL
// =============================================================================

// Options carries the wired dependencies for the TUI.
type Options struct {
	Client   *api.Client
	Cache    *storage.ChatCache // nil disables local chat history
	Pipeline *upload.Pipeline
	Inbox    *watch.Inbox // nil when no inbox dir is configured
	Log      *history.Log // nil disables upload history
	Replay   bool
	Version  string
}

// App is the root model.
type App struct {
	theme *styles.Theme

	active tab
	chat   chat.Model
	docs   documents.Model
	status health.Model

	expired bool
	version string

	width  int
	height int
}

// NewApp wires the tabs together.
func NewApp(opts Options) App {
	theme := styles.NewTheme()
	return App{
		theme:   theme,
		chat:    chat.New(theme, opts.Client, opts.Cache, opts.Replay),
		docs:    documents.New(theme, opts.Client, opts.Pipeline, opts.Inbox, opts.Log),
		status:  health.New(theme, opts.Client),
		version: opts.Version,
	}
}

// SessionExpired builds the command the API client's 401 handler feeds into
// the program.
func SessionExpired() tea.Msg {
	return sessionExpiredMsg{}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.chat.Init(), a.docs.Init(), a.status.Init())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)

		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(inner)
		cmds = append(cmds, cmd)
		a.docs, cmd = a.docs.Update(inner)
		cmds = append(cmds, cmd)
		a.status, cmd = a.status.Update(inner)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case sessionExpiredMsg:
		a.expired = true
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "tab":
			a.active = (a.active + 1) % tabCount
			return a, nil
		case "shift+tab":
			a.active = (a.active + tabCount - 1) % tabCount
			return a, nil
		}
	}

	return a.routeToActive(msg)
}

// routeToActive forwards a message to the active tab. Background messages
// (batch results, replay ticks) go to every tab so progress keeps moving
// while another tab is focused.
func (a App) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		cmds = append(cmds, cmd)
		a.docs, cmd = a.docs.Update(msg)
		cmds = append(cmds, cmd)
		a.status, cmd = a.status.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	switch a.active {
	case tabChat:
		a.chat, cmd = a.chat.Update(msg)
	case tabDocuments:
		a.docs, cmd = a.docs.Update(msg)
	case tabHealth:
		a.status, cmd = a.status.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n")

	switch a.active {
	case tabChat:
		b.WriteString(a.chat.View())
	case tabDocuments:
		b.WriteString(a.docs.View())
	case tabHealth:
		b.WriteString(a.status.View())
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a App) renderTabs() string {
	var parts []string
	for t := tab(0); t < tabCount; t++ {
		if t == a.active {
			parts = append(parts, a.theme.TabActive.Render(t.title()))
		} else {
			parts = append(parts, a.theme.Tab.Render(t.title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderStatusBar() string {
	left := " docterm " + a.version
	if a.expired {
		left = " " + a.theme.Error.Render("session expired — run 'docterm login'")
	}

	right := ""
	if a.chat.Busy() {
		right = "answering… "
	} else if a.docs.Busy() {
		right = "uploading… "
	}
	return components.StatusBar(a.theme, a.width, left, right)
}
