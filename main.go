// BIRXUO TUI - a terminal chat client for OpenRouter models.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/birxuo/birxuo-tui/internal/cli"
	"github.com/birxuo/birxuo-tui/internal/config"
	"github.com/birxuo/birxuo-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI()
	case cli.CmdAsk:
		withApp(func(app *cli.App) error { return cli.HandleAsk(app, args) })
	case cli.CmdSetup:
		withApp(cli.HandleSetup)
	case cli.CmdConfig:
		withApp(cli.HandleConfig)
	case cli.CmdSessions:
		withApp(cli.HandleSessions)
	case cli.CmdExport:
		withApp(func(app *cli.App) error { return cli.HandleExport(app, args) })
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// withApp bootstraps the application, runs fn, and reports failures.
func withApp(fn func(*cli.App) error) {
	app, err := cli.Bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := fn(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the interactive chat interface.
func runTUI() {
	app, err := cli.Bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if !app.Client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "No OpenRouter API key configured. Run: birxuo setup")
		os.Exit(1)
	}

	model := chat.New(chat.Options{
		Session:  app.Session,
		Settings: app.Settings,
		Archive:  app.Archive,
		Config:   app.Config,
		Sender:   app.Orchestrator,
		Narrator: app.Narrator,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Live-reload config file edits into the running UI.
	if path, perr := config.Path(); perr == nil {
		watcher, werr := config.Watch(path, func(cfg *config.Config) {
			app.Client.WithTimeout(cfg.Timeout())
			program.Send(chat.ConfigReloadedMsg{Config: cfg})
		})
		if werr == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
