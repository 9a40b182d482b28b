// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage caches chat transcripts on disk as JSON files, one per
// chat, so listings render before the backend answers and recent
// conversations survive offline starts. The backend remains the source of
// truth; the cache is refreshed after every successful sync.
package storage
