// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/telfordlabs/docterm/internal/api"
	"github.com/telfordlabs/docterm/internal/config"
	"github.com/telfordlabs/docterm/internal/model"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// promptLine wraps liner with persistent input history.
type promptLine struct {
	line        *liner.State
	historyFile string
}

func newPromptLine() *promptLine {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	p := &promptLine{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	if f, err := os.Open(p.historyFile); err == nil {
		p.line.ReadHistory(f)
		f.Close()
	}
	return p
}

func (p *promptLine) Read(prompt string) (string, error) {
	input, err := p.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		p.line.AppendHistory(input)
	}
	return input, nil
}

func (p *promptLine) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(p.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			p.line.WriteHistory(f)
			f.Close()
		}
	}
	p.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs an interactive chat loop in the plain terminal.
func HandleChat(args Args) error {
	if !IsTTY() {
		return errors.New("chat needs an interactive terminal")
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client, err := NewClient(cfg, args)
	if err != nil {
		return err
	}

	prompt := newPromptLine()
	defer prompt.Close()

	fmt.Println("docterm chat — :new starts a fresh conversation, :quit exits")
	replay := cfg.UI.StreamReplay && !args.NoReplay && IsStdoutTTY()

	chatID := ""
	for {
		input, err := prompt.Read("> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Println("bye")
				return nil
			}
			return err
		}

		query := strings.TrimSpace(input)
		switch query {
		case "":
			continue
		case ":quit", ":q", "exit":
			fmt.Println("bye")
			return nil
		case ":new":
			chatID = ""
			fmt.Println("started a new conversation")
			continue
		}

		answer, newID, err := sendChatTurn(client, chatID, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, api.ErrSessionExpired) {
				return err
			}
			continue
		}
		chatID = newID

		if replay {
			ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
			typeOut(ctx, answer)
			cancel()
		} else {
			displayAnswer(answer)
		}
	}
}

func sendChatTurn(client *api.Client, chatID, query string) (answer, id string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	if chatID == "" {
		created, err := client.CreateChat(ctx, query, model.DeriveTitle(query))
		if err != nil {
			return "", "", err
		}
		return created.Answer, created.ChatID, nil
	}

	reply, err := client.SendMessage(ctx, chatID, query)
	if err != nil {
		return "", chatID, err
	}
	return reply.Answer, chatID, nil
}
