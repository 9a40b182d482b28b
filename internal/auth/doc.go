// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth stores the backend bearer token on disk.
//
// Tokens persist at ~/.docterm/token with 0600 permissions. With a
// passphrase the token is encrypted at rest using PBKDF2-derived
// AES-256-GCM; the on-disk format is ENC:base64(salt|nonce|ciphertext).
// Session expiry clears the stored token so the next start forces a fresh
// login.
package auth
