// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"strings"
	"time"
)

// ErrTurnNotFound is returned when a reconcile or rollback targets a local
// id that is no longer in the message list.
var ErrTurnNotFound = errors.New("optimistic turn not found")

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat is a conversation with the backend.
type Chat struct {
	ID        Identity  `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages"`
}

// NewChat creates a chat with a local optimistic id. The title is derived
// from the first query.
func NewChat(firstQuery string) *Chat {
	now := time.Now()
	return &Chat{
		ID:        NewLocalID(),
		Title:     DeriveTitle(firstQuery),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeriveTitle builds a chat title from a query: first line, trimmed to 50
// runes.
func DeriveTitle(query string) string {
	title := query
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) > 50 {
		title = string(runes[:47]) + "..."
	}
	if title == "" {
		title = "New chat"
	}
	return title
}

// =============================================================================
// OPTIMISTIC TURNS
// =============================================================================

// Turn identifies the optimistic pair appended for one chat turn.
type Turn struct {
	UserID      Identity
	AssistantID Identity
}

// BeginTurn appends a user message and an assistant placeholder with local
// ids, before the network call resolves.
func (c *Chat) BeginTurn(query string) Turn {
	user := NewUserMessage(query)
	placeholder := NewAssistantPlaceholder()
	c.Messages = append(c.Messages, user, placeholder)
	c.UpdatedAt = time.Now()
	return Turn{UserID: user.ID, AssistantID: placeholder.ID}
}

// ResolveTurn reconciles an optimistic turn with the backend's response:
// the placeholder receives the server message id and the full answer text,
// and the user message id is confirmed. A single merge step keyed on the
// original local ids, so a turn is never duplicated.
func (c *Chat) ResolveTurn(turn Turn, serverMessageID, answer string) error {
	ui := c.indexOf(turn.UserID)
	ai := c.indexOf(turn.AssistantID)
	if ui < 0 || ai < 0 {
		return ErrTurnNotFound
	}

	c.Messages[ui].ID = Confirmed(serverMessageID + ":user")
	c.Messages[ai].ID = Confirmed(serverMessageID)
	c.Messages[ai].FullContent = answer
	c.UpdatedAt = time.Now()
	return nil
}

// RollbackTurn removes both optimistic entries after a failed call and
// returns the user's query text so the caller can restore the draft.
func (c *Chat) RollbackTurn(turn Turn) (draft string, err error) {
	ui := c.indexOf(turn.UserID)
	if ui < 0 {
		return "", ErrTurnNotFound
	}
	draft = c.Messages[ui].Content

	kept := c.Messages[:0]
	for _, m := range c.Messages {
		if m.ID.Equal(turn.UserID) || m.ID.Equal(turn.AssistantID) {
			continue
		}
		kept = append(kept, m)
	}
	c.Messages = kept
	c.UpdatedAt = time.Now()
	return draft, nil
}

// ConfirmID replaces the chat's local id with the server-issued one.
func (c *Chat) ConfirmID(serverChatID string) {
	c.ID = Confirmed(serverChatID)
}

// =============================================================================
// MESSAGE ACCESS
// =============================================================================

// Message returns a pointer to the message with the given id, or nil.
func (c *Chat) Message(id Identity) *Message {
	if i := c.indexOf(id); i >= 0 {
		return &c.Messages[i]
	}
	return nil
}

// UpdateMessage applies fn to the message with the given id as a
// self-contained transform of its current value. Returns false if the
// message has been removed, which replay ticks use as their unmount guard.
func (c *Chat) UpdateMessage(id Identity, fn func(Message) Message) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.Messages[i] = fn(c.Messages[i])
	return true
}

func (c *Chat) indexOf(id Identity) int {
	for i, m := range c.Messages {
		if m.ID.Equal(id) {
			return i
		}
	}
	return -1
}

// =============================================================================
// DOCUMENT TYPE
// =============================================================================

// Document is a processed document record from the backend.
type Document struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
