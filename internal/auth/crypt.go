// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Encryption parameters.
const (
	// EncryptedPrefix marks a stored value as encrypted.
	EncryptedPrefix = "ENC:"

	// pbkdf2Iterations is the PBKDF2-SHA-256 iteration count.
	pbkdf2Iterations = 600000

	keySize  = 32 // AES-256
	saltSize = 16
)

// ErrBadPassphrase indicates decryption failed, almost always because the
// passphrase is wrong.
var ErrBadPassphrase = errors.New("wrong passphrase or corrupted token file")

// deriveKey derives an AES-256 key from a passphrase and salt.
func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
}

// encryptToken seals plaintext under a passphrase-derived key. A fresh salt
// and nonce go into every output, so encrypting the same token twice yields
// different ciphertexts.
func encryptToken(plaintext, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := deriveKey(passphrase, salt)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM cipher: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	payload := append(append(salt, nonce...), sealed...)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(payload), nil
}

// decryptToken opens a value produced by encryptToken.
func decryptToken(stored, passphrase string) (string, error) {
	encoded := strings.TrimPrefix(stored, EncryptedPrefix)
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 encoding: %w", err)
	}

	if len(payload) < saltSize {
		return "", ErrBadPassphrase
	}
	salt := payload[:saltSize]

	key := deriveKey(passphrase, salt)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM cipher: %w", err)
	}

	rest := payload[saltSize:]
	if len(rest) < gcm.NonceSize() {
		return "", ErrBadPassphrase
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrBadPassphrase
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether a stored value carries the encrypted marker.
func IsEncrypted(stored string) bool {
	return strings.HasPrefix(stored, EncryptedPrefix)
}

// zeroBytes overwrites key material after use.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
