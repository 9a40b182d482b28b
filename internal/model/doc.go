// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages, and
// documents.
//
// # Key Types
//
//   - Identity: tagged id that is local (optimistic) until the backend
//     confirms it
//   - Message: a single chat message; assistant messages carry both the
//     full answer and the portion displayed so far during replay
//   - Chat: a conversation with optimistic turn handling
//   - Document: a processed document record from the backend
//
// # Optimistic turns
//
// A chat turn appends a user message and an assistant placeholder before
// the network call resolves. On success both are reconciled to the
// server-issued ids with a single merge step keyed on the original local
// id; on failure both are removed so the user can retry.
package model
