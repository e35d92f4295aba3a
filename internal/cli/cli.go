// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the command-line surface around the TUI:
// argument parsing, the one-shot ask command, interactive setup, and
// archive management.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies the requested top-level command.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdSetup
	CmdConfig
	CmdSessions
	CmdExport
	CmdVersion
	CmdHelp
)

// Args carries the parsed arguments for a command.
type Args struct {
	// Raw is everything after the command word
	Raw []string

	// Query is the joined prompt for ask
	Query string

	// Model overrides the configured model for ask
	Model string
}

const usageText = `BIRXUO - terminal chat for OpenRouter models

Usage:
  birxuo                 Start the chat TUI
  birxuo ask <prompt>    One-shot completion, rendered to stdout
      --model <id>       Override the configured model
  birxuo setup           Interactive credential and model setup
  birxuo config          Print the active configuration
  birxuo sessions        List archived conversations
  birxuo export <id>     Export an archived conversation to Markdown
  birxuo version         Print version information
  birxuo help            Show this help

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("birxuo version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	raw := os.Args[1:]
	if len(raw) == 0 {
		return CmdTUI, Args{}
	}

	cmd := strings.ToLower(raw[0])
	args := Args{Raw: raw[1:]}

	switch cmd {
	case "tui":
		return CmdTUI, args
	case "ask":
		parseAskArgs(&args)
		return CmdAsk, args
	case "setup":
		return CmdSetup, args
	case "config":
		return CmdConfig, args
	case "sessions", "list":
		return CmdSessions, args
	case "export":
		return CmdExport, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		// Bare words are an implicit ask
		args.Raw = raw
		parseAskArgs(&args)
		return CmdAsk, args
	}
}

// parseAskArgs splits ask flags from the prompt words.
func parseAskArgs(args *Args) {
	var words []string
	for i := 0; i < len(args.Raw); i++ {
		arg := args.Raw[i]
		if arg == "--model" || arg == "-m" {
			if i+1 < len(args.Raw) {
				args.Model = args.Raw[i+1]
				i++
			}
			continue
		}
		words = append(words, arg)
	}
	args.Query = strings.Join(words, " ")
}
