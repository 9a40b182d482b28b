// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/auth"
)

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

// HandleLogin prompts for an API token, verifies it against the backend and
// stores it. With --encrypt the token is sealed with a passphrase.
func HandleLogin(args Args) error {
	if !IsTTY() {
		return errors.New("login needs an interactive terminal")
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	token, err := auth.ReadSecret("API token: ")
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("empty token")
	}

	// Verify before storing so a typo is caught immediately.
	client := api.NewClient(cfg.Server.URL, token)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := client.GetHealthStatus(ctx); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			return errors.New("the backend rejected this token")
		}
		return fmt.Errorf("could not reach %s: %w", cfg.Server.URL, err)
	}

	passphrase := ""
	if args.Encrypt {
		passphrase, err = auth.ReadSecret("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := auth.ReadSecret("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return errors.New("passphrases do not match")
		}
		if passphrase == "" {
			return errors.New("empty passphrase")
		}
	}

	store, err := auth.DefaultStore()
	if err != nil {
		return err
	}
	if err := store.Save(token, passphrase); err != nil {
		return err
	}

	if args.Encrypt {
		fmt.Println("Token stored (encrypted at rest).")
	} else {
		fmt.Println("Token stored.")
	}
	return nil
}

// HandleLogout removes the stored token.
func HandleLogout(args Args) error {
	store, err := auth.DefaultStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	if !args.Quiet {
		fmt.Fprintln(os.Stdout, "Logged out.")
	}
	return nil
}
