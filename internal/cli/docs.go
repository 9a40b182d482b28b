// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/telfordlabs/docterm/internal/util"
)

// =============================================================================
// DOCS COMMAND
// =============================================================================

// HandleDocs lists or deletes processed documents.
func HandleDocs(args Args) error {
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
		docs, err := client.GetDocuments(ctx)
		if err != nil {
			return err
		}
		if args.JSON {
			return json.NewEncoder(os.Stdout).Encode(docs)
		}
		if len(docs) == 0 {
			fmt.Println("no processed documents")
			return nil
		}
		for _, d := range docs {
			fmt.Printf("%s  %s %8s  %-10s  %s\n",
				d.ID,
				util.PadCell(util.TruncateString(d.FileName, 36), 36),
				util.HumanBytes(d.FileSize),
				d.Status,
				d.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil

	case "rm", "delete":
		if len(args.Raw) == 0 {
			return errors.New("usage: docterm docs rm ID")
		}
		if err := client.DeleteDocument(ctx, args.Raw[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	default:
		return fmt.Errorf("unknown docs subcommand %q", args.Subcommand)
	}
}
