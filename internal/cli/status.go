// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/telfordlabs/docterm/internal/config"
)

// =============================================================================
// STATUS COMMAND
// =============================================================================

// HandleStatus prints backend health and usage counters.
func HandleStatus(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client, err := NewClient(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	health, err := client.GetHealthStatus(ctx)
	if err != nil {
		return fmt.Errorf("backend unreachable at %s: %w", cfg.Server.URL, err)
	}
	stats, statsErr := client.GetChatStats(ctx)

	if args.JSON {
		out := map[string]any{"health": health}
		if statsErr == nil {
			out["stats"] = stats
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("server   %s\n", cfg.Server.URL)
	fmt.Printf("status   %s (version %s)\n", health.Status, health.Version)
	for _, c := range health.Components {
		line := fmt.Sprintf("  %-14s %s", c.Name, c.Status)
		if c.Message != "" {
			line += "  " + c.Message
		}
		fmt.Println(line)
	}
	if statsErr == nil {
		fmt.Printf("usage    %d chats, %d messages, %d documents\n",
			stats.TotalChats, stats.TotalMessages, stats.TotalDocuments)
	}
	return nil
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// HandleConfig shows the configuration or its path.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		cfg, err := LoadConfig(args)
		if err != nil {
			return err
		}
		if args.JSON {
			return json.NewEncoder(os.Stdout).Encode(cfg)
		}
		fmt.Printf("server.url            %s\n", cfg.Server.URL)
		fmt.Printf("server.timeout_secs   %d\n", cfg.Server.TimeoutSecs)
		fmt.Printf("server.max_retries    %d\n", cfg.Server.MaxRetries)
		fmt.Printf("upload.inbox_dir      %s\n", cfg.Upload.InboxDir)
		fmt.Printf("upload.history        %t\n", cfg.Upload.HistoryEnabled)
		fmt.Printf("ui.theme              %s\n", cfg.UI.Theme)
		fmt.Printf("ui.stream_replay      %t\n", cfg.UI.StreamReplay)
		fmt.Printf("ui.chat_cache         %t\n", cfg.UI.ChatCache)
		return nil

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	case "init":
		cfg := config.Default()
		if err := config.Save(cfg); err != nil {
			return err
		}
		path, _ := config.ConfigPath()
		fmt.Printf("wrote %s\n", path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q", args.Subcommand)
	}
}
