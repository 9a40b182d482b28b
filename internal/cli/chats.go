// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/telfordlabs/docterm/internal/util"
)

// =============================================================================
// CHATS COMMAND
// =============================================================================

const listTimeout = 30 * time.Second

// HandleChats lists, shows, or deletes conversations.
func HandleChats(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client, err := NewClient(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	switch args.Subcommand {
	case "", "list", "ls":
		chats, err := client.GetChats(ctx)
		if err != nil {
			return err
		}
		if args.JSON {
			return json.NewEncoder(os.Stdout).Encode(chats)
		}
		if len(chats) == 0 {
			fmt.Println("no conversations yet")
			return nil
		}
		for _, c := range chats {
			fmt.Printf("%s  %s  %s\n",
				c.ID,
				util.PadCell(util.TruncateString(c.Title, 44), 44),
				c.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil

	case "show":
		if len(args.Raw) == 0 {
			return errors.New("usage: docterm chats show ID")
		}
		detail, err := client.GetChat(ctx, args.Raw[0])
		if err != nil {
			return err
		}
		if args.JSON {
			return json.NewEncoder(os.Stdout).Encode(detail)
		}
		fmt.Printf("%s (%d messages)\n\n", detail.Title, len(detail.Messages))
		for _, m := range detail.Messages {
			fmt.Printf("[%s] %s\n", m.Role, m.CreatedAt.Format("15:04"))
			displayAnswer(m.Content)
			fmt.Println()
		}
		return nil

	case "rm", "delete":
		if len(args.Raw) == 0 {
			return errors.New("usage: docterm chats rm ID")
		}
		if err := client.DeleteChat(ctx, args.Raw[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	default:
		return fmt.Errorf("unknown chats subcommand %q", args.Subcommand)
	}
}
