// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// turnResultMsg carries the backend's answer for an optimistic turn.
type turnResultMsg struct {
	turn      model.Turn
	chatID    string // set only when the turn created the chat
	messageID string
	answer    string
}

// turnErrorMsg reports a failed turn so it can be rolled back.
type turnErrorMsg struct {
	turn model.Turn
	err  error
}

// replayStepMsg advances the typing replay for one assistant message. The
// id pins the step to a specific message so stale ticks are dropped.
type replayStepMsg struct {
	id model.Identity
}

// =============================================================================
// COMMANDS
// =============================================================================

const turnTimeout = 90 * time.Second

// sendTurn resolves an optimistic turn against the backend. The first turn
// of a local chat creates the conversation; later turns append to it.
func sendTurn(client *api.Client, chatID model.Identity, turn model.Turn, query, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		if chatID.IsLocal() {
			created, err := client.CreateChat(ctx, query, title)
			if err != nil {
				return turnErrorMsg{turn: turn, err: err}
			}
			return turnResultMsg{
				turn:      turn,
				chatID:    created.ChatID,
				messageID: created.MessageID,
				answer:    created.Answer,
			}
		}

		reply, err := client.SendMessage(ctx, chatID.Value, query)
		if err != nil {
			return turnErrorMsg{turn: turn, err: err}
		}
		return turnResultMsg{
			turn:      turn,
			messageID: reply.MessageID,
			answer:    reply.Answer,
		}
	}
}

// replayStep schedules the next replay tick for a message.
func replayStep(id model.Identity, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return replayStepMsg{id: id} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return replayStepMsg{id: id}
	})
}
