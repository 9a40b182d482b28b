// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/auth"
	"github.com/telfordlabs/docterm/internal/config"
)

func TestSessionExpiryClearsStoredToken(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store := auth.NewStore(filepath.Join(home, ".docterm"))
	if err := store.Save("stale-token", ""); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Server.URL = srv.URL
	client, err := NewClient(cfg, Args{})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.GetChats(context.Background())
	if !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	if _, err := store.Load(""); !errors.Is(err, auth.ErrNoToken) {
		t.Errorf("token should be cleared after a 401, got %v", err)
	}
}
