// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/telfordlabs/docterm/internal/model"
	"github.com/telfordlabs/docterm/internal/util"
)

// ErrChatNotCached indicates the requested chat has no cache entry.
var ErrChatNotCached = errors.New("chat not in local cache")

// ChatMeta is the listing entry for a cached chat.
type ChatMeta struct {
	ID           string
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
	Preview      string
}

// ChatCache stores chat transcripts as JSON files under BaseDir.
type ChatCache struct {
	// BaseDir is the cache directory. Default: ~/.docterm/chats/
	BaseDir string

	// MaxChats limits cached chats (0 = unlimited). Oldest entries are
	// evicted past the limit.
	MaxChats int
}

// NewChatCache creates a cache under the default directory.
func NewChatCache() (*ChatCache, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewChatCacheWithDir(filepath.Join(homeDir, ".docterm", "chats"))
}

// NewChatCacheWithDir creates a cache under a custom directory.
func NewChatCacheWithDir(baseDir string) (*ChatCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &ChatCache{
		BaseDir:  baseDir,
		MaxChats: 100,
	}, nil
}

// cachedChat is the on-disk representation.
type cachedChat struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Messages  []cachedMessage `json:"messages"`
}

type cachedMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Save persists a chat. Only confirmed server ids are cached; a chat whose
// id is still local has not round-tripped and would collide on reconcile.
func (c *ChatCache) Save(chat *model.Chat) error {
	if chat.ID.IsLocal() {
		return errors.New("refusing to cache unconfirmed chat")
	}

	stored := cachedChat{
		ID:        chat.ID.Value,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	for _, m := range chat.Messages {
		content := m.Content
		if m.FullContent != "" {
			// Cache the complete answer even if replay was mid-flight.
			content = m.FullContent
		}
		stored.Messages = append(stored.Messages, cachedMessage{
			ID:        m.ID.Value,
			Role:      string(m.Role),
			Content:   content,
			Timestamp: m.Timestamp,
		})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(c.filePath(stored.ID), data, 0644); err != nil {
		return err
	}

	if c.MaxChats > 0 {
		c.enforceLimit()
	}
	return nil
}

// Load retrieves a cached chat by server id.
func (c *ChatCache) Load(id string) (*model.Chat, error) {
	data, err := os.ReadFile(c.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrChatNotCached
		}
		return nil, err
	}

	var stored cachedChat
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("corrupted cache entry %s: %w", id, err)
	}

	chat := &model.Chat{
		ID:        model.Confirmed(stored.ID),
		Title:     stored.Title,
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	}
	for _, m := range stored.Messages {
		chat.Messages = append(chat.Messages, model.Message{
			ID:        model.Confirmed(m.ID),
			Role:      model.Role(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return chat, nil
}

// List returns cached chat metadata, most recently updated first.
func (c *ChatCache) List() ([]ChatMeta, error) {
	entries, err := os.ReadDir(c.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ChatMeta{}, nil
		}
		return nil, err
	}

	var metas []ChatMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		chat, err := c.Load(id)
		if err != nil {
			// Skip corrupted files.
			continue
		}

		preview := ""
		for _, m := range chat.Messages {
			if m.Role == model.RoleUser {
				preview = util.TruncateString(util.FirstLine(m.Content), 80)
				break
			}
		}

		metas = append(metas, ChatMeta{
			ID:           id,
			Title:        chat.Title,
			CreatedAt:    chat.CreatedAt,
			UpdatedAt:    chat.UpdatedAt,
			MessageCount: len(chat.Messages),
			Preview:      preview,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Delete removes a cached chat. Missing entries are not an error.
func (c *ChatCache) Delete(id string) error {
	err := os.Remove(c.filePath(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every cache entry.
func (c *ChatCache) Clear() error {
	metas, err := c.List()
	if err != nil {
		return err
	}
	for _, m := range metas {
		if err := c.Delete(m.ID); err != nil {
			return err
		}
	}
	return nil
}

// enforceLimit evicts the oldest entries past MaxChats.
func (c *ChatCache) enforceLimit() {
	metas, err := c.List()
	if err != nil || len(metas) <= c.MaxChats {
		return
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})
	excess := len(metas) - c.MaxChats
	for i := 0; i < excess; i++ {
		c.Delete(metas[i].ID)
	}
}

func (c *ChatCache) filePath(id string) string {
	// Server ids are opaque; sanitize anything path-hostile.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	return filepath.Join(c.BaseDir, safe+".json")
}
