// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/telfordlabs/docterm/internal/model"
	"github.com/telfordlabs/docterm/internal/stream"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

const askTimeout = 120 * time.Second

// HandleAsk runs a one-shot question: create a chat, print the answer, done.
func HandleAsk(args Args) error {
	if args.Query == "" {
		return errors.New("usage: docterm ask \"question\"")
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client, err := NewClient(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	if !args.Quiet && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, "thinking...")
	}

	created, err := client.CreateChat(ctx, args.Query, model.DeriveTitle(args.Query))
	if err != nil {
		return err
	}

	replay := cfg.UI.StreamReplay && !args.NoReplay && IsStdoutTTY()
	if !replay {
		displayAnswer(created.Answer)
		return nil
	}

	typeOut(ctx, created.Answer)
	return nil
}

// typeOut replays an answer to stdout with the typing cadence, then prints a
// trailing newline. Interrupting the context flushes nothing further.
func typeOut(ctx context.Context, answer string) {
	runner := stream.NewRunner(stream.NewRandomStrategy())
	done := make(chan struct{})

	runner.Start(ctx, answer,
		func(chunk string) { fmt.Print(chunk) },
		func() { close(done) },
	)

	select {
	case <-done:
		fmt.Println()
	case <-ctx.Done():
		runner.Stop()
		fmt.Println()
	}
}
