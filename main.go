// docterm - a terminal client for the document chat backend.
//
// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/telfordlabs/docterm/internal/auth"
	"github.com/telfordlabs/docterm/internal/cli"
	"github.com/telfordlabs/docterm/internal/history"
	"github.com/telfordlabs/docterm/internal/storage"
	"github.com/telfordlabs/docterm/internal/ui"
	"github.com/telfordlabs/docterm/internal/upload"
	"github.com/telfordlabs/docterm/internal/watch"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdLogout:
		err = cli.HandleLogout(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdUpload:
		err = cli.HandleUpload(args)
	case cli.CmdChats:
		err = cli.HandleChats(args)
	case cli.CmdDocs:
		err = cli.HandleDocs(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the shared client, stores and watchers into the app model.
func runTUI(args cli.Args) error {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}
	client, err := cli.NewClient(cfg, args)
	if err != nil {
		return err
	}

	var cache *storage.ChatCache
	if cfg.UI.ChatCache {
		cache, err = storage.NewChatCache()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: chat cache disabled: %v\n", err)
			cache = nil
		}
	}

	set := upload.NewSet()
	pipeline := upload.NewPipeline(set, client)

	var inbox *watch.Inbox
	if cfg.Upload.InboxDir != "" {
		inbox, err = watch.NewInbox(cfg.Upload.InboxDir, set)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: inbox watcher disabled: %v\n", err)
			inbox = nil
		}
	}

	var log *history.Log
	if cfg.Upload.HistoryEnabled {
		if path, err := history.DefaultPath(); err == nil {
			if log, err = history.Open(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: upload history disabled: %v\n", err)
				log = nil
			}
		}
	}
	if log != nil {
		defer log.Close()
	}

	app := ui.NewApp(ui.Options{
		Client:   client,
		Cache:    cache,
		Pipeline: pipeline,
		Inbox:    inbox,
		Log:      log,
		Replay:   cfg.UI.StreamReplay,
		Version:  Version,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	client.OnSessionExpired(func() {
		if store, err := auth.DefaultStore(); err == nil {
			_ = store.Clear()
		}
		p.Send(ui.SessionExpired())
	})

	if inbox != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := inbox.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: inbox watcher failed: %v\n", err)
		}
		defer inbox.Close()
	}

	_, err = p.Run()
	return err
}
