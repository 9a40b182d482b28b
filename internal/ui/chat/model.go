// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view: a transcript viewport, a
// composer line, and the typewriter replay for finished answers.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/markdown"
	"github.com/telfordlabs/docterm/internal/model"
	"github.com/telfordlabs/docterm/internal/storage"
	"github.com/telfordlabs/docterm/internal/stream"
	"github.com/telfordlabs/docterm/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat tab.
type Model struct {
	theme    *styles.Theme
	client   *api.Client
	cache    *storage.ChatCache
	renderer *markdown.Renderer

	chat *model.Chat

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	strategy      stream.Strategy
	replayEnabled bool
	replay        *stream.Replay
	replayID      model.Identity

	pending *model.Turn
	waiting bool
	errText string

	width  int
	height int
	ready  bool
}

// New builds the chat tab. cache may be nil when local history is disabled.
func New(theme *styles.Theme, client *api.Client, cache *storage.ChatCache, replayEnabled bool) Model {
	input := textinput.New()
	input.Placeholder = "Ask about your documents..."
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Muted),
	)

	return Model{
		theme:         theme,
		client:        client,
		cache:         cache,
		renderer:      markdown.NewRenderer(80),
		input:         input,
		spin:          spin,
		strategy:      stream.NewRandomStrategy(),
		replayEnabled: replayEnabled,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Chat exposes the active conversation, or nil before the first turn.
func (m Model) Chat() *model.Chat {
	return m.chat
}

// Busy reports whether a turn is unresolved or a replay is running. The app
// root uses this to keep the quit prompt honest.
func (m Model) Busy() bool {
	return m.waiting || m.replay != nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case turnResultMsg:
		return m.handleTurnResult(msg)

	case turnErrorMsg:
		return m.handleTurnError(msg)

	case replayStepMsg:
		return m.handleReplayStep(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()

	case "esc":
		if m.replay != nil {
			return m.finishReplay(), nil
		}
		m.errText = ""
		return m, nil

	case "ctrl+n":
		if m.waiting || m.replay != nil {
			return m, nil
		}
		m.persist()
		m.chat = nil
		m.errText = ""
		m.input.SetValue("")
		m.syncViewport()
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit begins an optimistic turn. It is a no-op while a turn is already
// unresolved or a replay is still typing, so a held-down enter key cannot
// fork the conversation.
func (m Model) submit() (Model, tea.Cmd) {
	if m.waiting || m.replay != nil {
		return m, nil
	}
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}

	if m.chat == nil {
		m.chat = model.NewChat(query)
	}
	turn := m.chat.BeginTurn(query)
	m.pending = &turn
	m.waiting = true
	m.errText = ""
	m.input.SetValue("")
	m.syncViewport()

	return m, tea.Batch(
		sendTurn(m.client, m.chat.ID, turn, query, m.chat.Title),
		m.spin.Tick,
	)
}

func (m Model) handleTurnResult(msg turnResultMsg) (Model, tea.Cmd) {
	if m.pending == nil || !m.pending.UserID.Equal(msg.turn.UserID) {
		return m, nil
	}
	m.pending = nil
	m.waiting = false

	if err := m.chat.ResolveTurn(msg.turn, msg.messageID, msg.answer); err != nil {
		// The turn was cleared before the reply landed; nothing to show.
		return m, nil
	}
	if msg.chatID != "" {
		m.chat.ConfirmID(msg.chatID)
	}

	assistantID := model.Confirmed(msg.messageID)

	if !m.replayEnabled || msg.answer == "" {
		m.chat.UpdateMessage(assistantID, func(mm model.Message) model.Message {
			mm.Content = mm.FullContent
			return mm
		})
		m.persist()
		m.syncViewport()
		return m, nil
	}

	m.replay = stream.NewReplay(msg.answer)
	m.replayID = assistantID
	m.syncViewport()
	return m, replayStep(assistantID, 0)
}

func (m Model) handleTurnError(msg turnErrorMsg) (Model, tea.Cmd) {
	if m.pending == nil || !m.pending.UserID.Equal(msg.turn.UserID) {
		return m, nil
	}
	m.pending = nil
	m.waiting = false

	draft, err := m.chat.RollbackTurn(msg.turn)
	if err == nil {
		m.input.SetValue(draft)
		m.input.CursorEnd()
	}
	if len(m.chat.Messages) == 0 {
		m.chat = nil
	}
	m.errText = msg.err.Error()
	m.syncViewport()
	return m, nil
}

// handleReplayStep reveals one chunk. The id check drops ticks from a
// superseded replay, and UpdateMessage returning false means the target
// message is gone, which ends the replay without a completion.
func (m Model) handleReplayStep(msg replayStepMsg) (Model, tea.Cmd) {
	if m.replay == nil || !msg.id.Equal(m.replayID) {
		return m, nil
	}

	chunk, delay, done := m.replay.Next(m.strategy)
	alive := m.chat.UpdateMessage(msg.id, func(mm model.Message) model.Message {
		mm.Content += chunk
		return mm
	})
	if !alive {
		m.replay = nil
		return m, nil
	}
	m.syncViewport()

	if done {
		m.replay = nil
		m.persist()
		return m, nil
	}
	return m, replayStep(msg.id, delay)
}

// finishReplay reveals the rest of the answer in one step.
func (m Model) finishReplay() Model {
	if m.replay == nil {
		return m
	}
	full := m.replay.Finish()
	m.replay = nil
	m.chat.UpdateMessage(m.replayID, func(mm model.Message) model.Message {
		mm.Content = full
		return mm
	})
	m.persist()
	m.syncViewport()
	return m
}

// persist writes the chat to the local cache, best effort. Local chats are
// skipped; the cache refuses unconfirmed ids anyway.
func (m *Model) persist() {
	if m.cache == nil || m.chat == nil || m.chat.ID.IsLocal() {
		return
	}
	_ = m.cache.Save(m.chat)
}

func (m Model) resize(width, height int) Model {
	m.width = width
	m.height = height

	contentHeight := height - 4
	if contentHeight < 1 {
		contentHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = contentHeight
	}
	m.input.Width = width - 4

	renderWidth := width - 4
	if renderWidth < 20 {
		renderWidth = 20
	}
	m.renderer = markdown.NewRenderer(renderWidth)
	m.syncViewport()
	return m
}
