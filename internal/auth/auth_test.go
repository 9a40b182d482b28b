// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreSaveLoadPlain(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save("tok_abc123", ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	tok, err := s.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tok != "tok_abc123" {
		t.Errorf("Loaded %q", tok)
	}
	if s.Encrypted() {
		t.Error("Plain token reported as encrypted")
	}

	info, err := os.Stat(filepath.Join(s.dir, "token"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Token file perms = %o, want 0600", perm)
	}
}

func TestStoreSaveLoadEncrypted(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save("tok_secret", "hunter2"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !s.Encrypted() {
		t.Fatal("Encrypted token not detected")
	}

	// Raw file must not contain the token.
	raw, _ := os.ReadFile(filepath.Join(s.dir, "token"))
	if strings.Contains(string(raw), "tok_secret") {
		t.Error("Token stored in cleartext despite passphrase")
	}
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), EncryptedPrefix) {
		t.Errorf("Stored value missing %s marker: %q", EncryptedPrefix, raw)
	}

	tok, err := s.Load("hunter2")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tok != "tok_secret" {
		t.Errorf("Loaded %q", tok)
	}
}

func TestStoreWrongPassphrase(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Save("tok_secret", "right")

	if _, err := s.Load("wrong"); !errors.Is(err, ErrBadPassphrase) {
		t.Errorf("Expected ErrBadPassphrase, got %v", err)
	}
	if _, err := s.Load(""); !errors.Is(err, ErrPassphraseRequired) {
		t.Errorf("Expected ErrPassphraseRequired, got %v", err)
	}
}

func TestStoreNoToken(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Load(""); !errors.Is(err, ErrNoToken) {
		t.Errorf("Expected ErrNoToken, got %v", err)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Save("tok_abc", "")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := s.Load(""); !errors.Is(err, ErrNoToken) {
		t.Errorf("Token survived Clear: %v", err)
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("Second Clear failed: %v", err)
	}
}

func TestEncryptTokenNondeterministic(t *testing.T) {
	a, err := encryptToken("same", "pw")
	if err != nil {
		t.Fatal(err)
	}
	b, err := encryptToken("same", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("Two encryptions of the same token produced identical output")
	}
}

func TestDecryptTokenRejectsGarbage(t *testing.T) {
	if _, err := decryptToken("ENC:!!!not-base64!!!", "pw"); err == nil {
		t.Error("Invalid base64 accepted")
	}
	if _, err := decryptToken("ENC:QQ==", "pw"); !errors.Is(err, ErrBadPassphrase) {
		t.Errorf("Truncated payload: expected ErrBadPassphrase, got %v", err)
	}
}
