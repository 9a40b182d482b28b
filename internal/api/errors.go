// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Error variables for common backend failures.
var (
	// ErrNotConfigured indicates no access token is set on the client.
	ErrNotConfigured = errors.New("access token not configured")

	// ErrSessionExpired indicates the backend rejected the token (HTTP 401).
	// Callers holding a session handler get notified once per occurrence.
	ErrSessionExpired = errors.New("session expired")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound indicates the requested chat or document does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError represents a non-OK response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
}

// TransferError represents a failed PUT to the storage origin. Presigned
// uploads fail differently from API calls (XML bodies, no JSON envelope), so
// they get their own type.
type TransferError struct {
	Status int
	Phase  string // "upload" for the PUT itself, "connect" for transport errors
	Err    error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer failed during %s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("transfer rejected by storage (HTTP %d)", e.Status)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
