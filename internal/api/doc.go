// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the docterm backend.
//
// The backend exposes chat, document, and health endpoints behind bearer
// token auth. All answer-producing operations are synchronous request/reply;
// the backend never streams, so any streaming presentation happens client
// side (see internal/stream).
//
// File bytes go directly to object storage through presigned URLs handed out
// by the backend. The client therefore speaks to two hosts: the API origin
// (JSON, authenticated) and the storage origin (raw PUT, URL-authorized).
package api
