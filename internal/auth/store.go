// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/telfordlabs/docterm/internal/util"
)

var (
	// ErrNoToken indicates no token has been stored yet.
	ErrNoToken = errors.New("no stored token, run 'docterm login'")

	// ErrPassphraseRequired indicates the stored token is encrypted and
	// cannot be read without a passphrase.
	ErrPassphraseRequired = errors.New("stored token is encrypted, passphrase required")
)

// Store persists the bearer token in a directory.
type Store struct {
	dir string
}

// NewStore creates a token store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore returns the store at ~/.docterm.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	return NewStore(filepath.Join(home, ".docterm")), nil
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.dir, "token")
}

// Save persists the token with 0600 permissions. A non-empty passphrase
// encrypts the token at rest.
func (s *Store) Save(token, passphrase string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}

	stored := token
	if passphrase != "" {
		enc, err := encryptToken(token, passphrase)
		if err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
		stored = enc
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := util.AtomicWriteFile(s.tokenPath(), []byte(stored+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Load reads the stored token. passphrase may be empty when the token was
// stored unencrypted; for an encrypted token an empty passphrase returns
// ErrPassphraseRequired.
func (s *Store) Load(passphrase string) (string, error) {
	data, err := os.ReadFile(s.tokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	stored := strings.TrimSpace(string(data))
	if stored == "" {
		return "", ErrNoToken
	}

	if !IsEncrypted(stored) {
		return stored, nil
	}
	if passphrase == "" {
		return "", ErrPassphraseRequired
	}
	return decryptToken(stored, passphrase)
}

// Encrypted reports whether the stored token requires a passphrase.
func (s *Store) Encrypted() bool {
	data, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return false
	}
	return IsEncrypted(strings.TrimSpace(string(data)))
}

// Clear removes the stored token. Called on explicit logout and when the
// backend reports the session expired.
func (s *Store) Clear() error {
	err := os.Remove(s.tokenPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// ReadSecret prompts on the terminal without echoing. Used for the token
// and passphrase prompts in 'docterm login'.
func ReadSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}
	secret, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
