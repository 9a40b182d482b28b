// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ChatCreated is the reply to CreateChat. The backend resolves the whole
// first turn in one round trip: the chat record plus the complete answer.
type ChatCreated struct {
	ChatID    string `json:"chatId"`
	Query     string `json:"query"`
	Answer    string `json:"answer"`
	MessageID string `json:"messageId"`
}

// MessageReply is the reply to SendMessage.
type MessageReply struct {
	Answer    string `json:"answer"`
	MessageID string `json:"messageId"`
}

// ChatSummary is one entry in the chat listing.
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatMessage is a persisted message as returned by GetChat.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatDetail is a full conversation as returned by GetChat.
type ChatDetail struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Messages  []ChatMessage `json:"messages"`
}

// ChatStats holds the aggregate counters shown on the health dashboard.
type ChatStats struct {
	TotalChats     int `json:"totalChats"`
	TotalMessages  int `json:"totalMessages"`
	TotalDocuments int `json:"totalDocuments"`
}

type createChatRequest struct {
	Query string `json:"query"`
	Title string `json:"title,omitempty"`
}

type sendMessageRequest struct {
	Query string `json:"query"`
}

// CreateChat starts a conversation with an initial query and returns the
// confirmed chat id together with the complete first answer.
func (c *Client) CreateChat(ctx context.Context, query, title string) (*ChatCreated, error) {
	var out ChatCreated
	err := c.doJSON(ctx, http.MethodPost, "/api/chats", createChatRequest{Query: query, Title: title}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage appends a follow-up turn to an existing chat.
func (c *Client) SendMessage(ctx context.Context, chatID, query string) (*MessageReply, error) {
	var out MessageReply
	err := c.doJSON(ctx, http.MethodPost, "/api/chats/"+url.PathEscape(chatID)+"/messages", sendMessageRequest{Query: query}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChats lists the user's conversations, newest first.
func (c *Client) GetChats(ctx context.Context) ([]ChatSummary, error) {
	var out []ChatSummary
	if err := c.getJSON(ctx, "/api/chats", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChat retrieves a full conversation including its messages.
func (c *Client) GetChat(ctx context.Context, chatID string) (*ChatDetail, error) {
	var out ChatDetail
	if err := c.getJSON(ctx, "/api/chats/"+url.PathEscape(chatID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteChat removes a conversation and its messages.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/chats/"+url.PathEscape(chatID), nil, nil)
}

// GetChatStats returns aggregate usage counters.
func (c *Client) GetChatStats(ctx context.Context) (*ChatStats, error) {
	var out ChatStats
	if err := c.getJSON(ctx, "/api/chats/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
