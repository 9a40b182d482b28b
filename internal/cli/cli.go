// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements command parsing and the non-TUI command handlers.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdAsk
	CmdChat
	CmdUpload
	CmdChats
	CmdDocs
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	JSON    bool
	Server  string // --server overrides the configured URL
	NoInput bool   // --no-input disables interactive prompts

	// Command-specific
	Query      string
	Files      []string
	Subcommand string
	Encrypt    bool // login --encrypt
	NoReplay   bool // ask/chat --no-replay

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `docterm - terminal client for the document chat backend

Usage:
  docterm                    Start the TUI (default)
  docterm login [--encrypt]  Store an API token (--encrypt protects it with a passphrase)
  docterm logout             Remove the stored token
  docterm ask "question"     One-shot question, answer to stdout
  docterm chat               Interactive chat in the terminal
  docterm upload FILE...     Upload PDFs for processing
  docterm chats [show|rm ID] List, show, or delete conversations
  docterm docs [rm ID]       List or delete processed documents
  docterm status, s          Backend health and usage counters
  docterm config [show|path] Configuration
  docterm version            Version information
  docterm help               This help

Global flags:
  --server URL   Override the configured server URL
  --json         Machine-readable output where supported
  --quiet, -q    Suppress progress output
  --no-replay    Print answers immediately instead of the typing effect
  --no-input     Never prompt; fail instead

Environment:
  DOCTERM_SERVER_URL, DOCTERM_TIMEOUT_SECS, DOCTERM_INBOX_DIR,
  DOCTERM_THEME, DOCTERM_STREAM_REPLAY
`

// Parse reads os.Args and returns the command with its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "login":
		for _, a := range remaining {
			if a == "--encrypt" || a == "-e" {
				args.Encrypt = true
			}
		}
		return CmdLogin, args

	case "logout":
		return CmdLogout, args

	case "ask":
		args.Query = strings.TrimSpace(strings.Join(remaining, " "))
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "upload", "up":
		args.Files = remaining
		return CmdUpload, args

	case "chats", "conversations":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
			args.Raw = remaining[1:]
		}
		return CmdChats, args

	case "docs", "documents":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
			args.Raw = remaining[1:]
		}
		return CmdDocs, args

	case "status", "s":
		return CmdStatus, args

	case "config":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdConfig, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		return CmdHelp, args
	}
}

func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--quiet", "-q":
			args.Quiet = true
		case "--json":
			args.JSON = true
		case "--no-replay":
			args.NoReplay = true
		case "--no-input":
			args.NoInput = true
		case "--server":
			if i+1 < len(argv) {
				i++
				args.Server = argv[i]
			}
		default:
			remaining = append(remaining, argv[i])
		}
	}
	return remaining, args
}

// PrintUsage writes the help text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes build information to stdout.
func PrintVersion() {
	fmt.Printf("docterm %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
