// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a chat.
//
// For assistant messages rendered with the replay effect, FullContent holds
// the complete answer returned by the backend and Content holds the portion
// displayed so far. For user messages the two are always equal.
type Message struct {
	ID        Identity  `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content is the currently displayed text.
	Content string `json:"content"`

	// FullContent is the complete target text used as the replay source.
	// Empty for user messages.
	FullContent string `json:"full_content,omitempty"`
}

// NewUserMessage creates a user message with a local optimistic id.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewLocalID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantPlaceholder creates an empty assistant message awaiting the
// backend's answer.
func NewAssistantPlaceholder() Message {
	return Message{
		ID:        NewLocalID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// IsComplete reports whether the displayed content has caught up with the
// full answer.
func (m Message) IsComplete() bool {
	if m.Role != RoleAssistant {
		return true
	}
	return m.Content == m.FullContent
}

// Preview returns a truncated single-line preview of the message.
func (m Message) Preview(maxLen int) string {
	content := m.Content
	if m.FullContent != "" {
		content = m.FullContent
	}
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
