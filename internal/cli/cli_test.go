// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"birxuo"}, argv...)
	defer func() { os.Args = orig }()
	return Parse()
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args launches tui", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"setup", []string{"setup"}, CmdSetup},
		{"config", []string{"config"}, CmdConfig},
		{"sessions", []string{"sessions"}, CmdSessions},
		{"list alias", []string{"list"}, CmdSessions},
		{"export", []string{"export", "abc123"}, CmdExport},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := parseArgs(t, tt.argv...)
			if got != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.argv, got, tt.want)
			}
		})
	}
}

func TestParseAskJoinsQuery(t *testing.T) {
	cmd, args := parseArgs(t, "ask", "what", "is", "a", "goroutine")
	if cmd != CmdAsk {
		t.Fatalf("command = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is a goroutine" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseAskModelFlag(t *testing.T) {
	cmd, args := parseArgs(t, "ask", "--model", "deepseek/deepseek-chat", "explain", "channels")
	if cmd != CmdAsk {
		t.Fatalf("command = %v, want CmdAsk", cmd)
	}
	if args.Model != "deepseek/deepseek-chat" {
		t.Errorf("model = %q", args.Model)
	}
	if args.Query != "explain channels" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseBareWordsAreImplicitAsk(t *testing.T) {
	cmd, args := parseArgs(t, "why", "is", "the", "sky", "blue")
	if cmd != CmdAsk {
		t.Fatalf("command = %v, want CmdAsk", cmd)
	}
	if args.Query != "why is the sky blue" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseExportKeepsRawArgs(t *testing.T) {
	_, args := parseArgs(t, "export", "abc123")
	if len(args.Raw) != 1 || args.Raw[0] != "abc123" {
		t.Errorf("raw args = %v", args.Raw)
	}
}
