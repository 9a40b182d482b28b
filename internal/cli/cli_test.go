// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parse(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"tui"}, CmdTUI},
		{[]string{"login"}, CmdLogin},
		{[]string{"logout"}, CmdLogout},
		{[]string{"ask", "hello"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"upload", "a.pdf"}, CmdUpload},
		{[]string{"up", "a.pdf"}, CmdUpload},
		{[]string{"chats"}, CmdChats},
		{[]string{"docs"}, CmdDocs},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"bogus"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _ := parse(tt.argv)
		if cmd != tt.want {
			t.Errorf("parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseAskJoinsQuery(t *testing.T) {
	_, args := parse([]string{"ask", "what", "is", "this"})
	if args.Query != "what is this" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parse([]string{"--server", "http://example:9000", "-q", "--json", "status"})
	if cmd != CmdStatus {
		t.Fatalf("cmd = %v, want CmdStatus", cmd)
	}
	if args.Server != "http://example:9000" {
		t.Errorf("Server = %q", args.Server)
	}
	if !args.Quiet || !args.JSON {
		t.Error("expected quiet and json set")
	}
}

func TestParseLoginEncrypt(t *testing.T) {
	_, args := parse([]string{"login", "--encrypt"})
	if !args.Encrypt {
		t.Error("expected Encrypt set")
	}
}

func TestParseSubcommandWithID(t *testing.T) {
	_, args := parse([]string{"chats", "rm", "abc123"})
	if args.Subcommand != "rm" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if len(args.Raw) != 1 || args.Raw[0] != "abc123" {
		t.Errorf("Raw = %v", args.Raw)
	}
}
