// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "github.com/google/uuid"

// =============================================================================
// TAGGED IDENTITY
// =============================================================================

// IdentityKind distinguishes client-generated ids from server-issued ones.
type IdentityKind int

const (
	// IdentityLocal marks an id generated on the client for an optimistic
	// entry that the backend has not confirmed yet.
	IdentityLocal IdentityKind = iota

	// IdentityConfirmed marks a server-issued id.
	IdentityConfirmed
)

// Identity is a tagged id. Optimistic entries start out local and are
// reconciled to confirmed once the backend responds.
type Identity struct {
	Kind  IdentityKind `json:"kind"`
	Value string       `json:"value"`
}

// NewLocalID generates a fresh local identity. UUIDs cannot collide within
// a batch, which the upload pipeline and optimistic chat turns rely on.
func NewLocalID() Identity {
	return Identity{Kind: IdentityLocal, Value: "local_" + uuid.NewString()}
}

// Confirmed wraps a server-issued id.
func Confirmed(value string) Identity {
	return Identity{Kind: IdentityConfirmed, Value: value}
}

// IsLocal reports whether the identity is still unconfirmed.
func (id Identity) IsLocal() bool {
	return id.Kind == IdentityLocal
}

// Equal reports whether two identities refer to the same entry.
func (id Identity) Equal(other Identity) bool {
	return id.Kind == other.Kind && id.Value == other.Value
}

// String returns the raw id value.
func (id Identity) String() string {
	return id.Value
}
