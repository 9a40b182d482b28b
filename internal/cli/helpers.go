// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/auth"
	"github.com/telfordlabs/docterm/internal/config"
)

// =============================================================================
// CLIENT SETUP
// =============================================================================

// LoadConfig loads the configuration with the --server override applied.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if args.Server != "" {
		cfg.Server.URL = args.Server
	}
	return cfg, nil
}

// NewClient builds an API client from the config and the stored token. An
// encrypted token prompts for its passphrase unless --no-input is set.
func NewClient(cfg *config.Config, args Args) (*api.Client, error) {
	store, err := auth.DefaultStore()
	if err != nil {
		return nil, err
	}

	passphrase := ""
	if store.Encrypted() {
		if args.NoInput || !IsTTY() {
			return nil, errors.New("token is encrypted and no terminal is available for the passphrase")
		}
		passphrase, err = auth.ReadSecret("Token passphrase: ")
		if err != nil {
			return nil, err
		}
	}

	token, err := store.Load(passphrase)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.Server.URL, token).
		WithMaxRetries(cfg.Server.MaxRetries)
	client.OnSessionExpired(func() {
		// A rejected token is dead weight; clear it so the next start goes
		// straight to login.
		_ = store.Clear()
		fmt.Fprintln(os.Stderr, "session expired: stored token cleared, run 'docterm login'")
	})
	return client, nil
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for terminal output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, falling back to the
// raw text when the renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayAnswer prints an answer, rendered when stdout is a TTY so piped
// output stays clean.
func displayAnswer(answer string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(answer))
	} else {
		fmt.Println(answer)
	}
}
