// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/util"
)

// HandleSessions lists archived conversations, newest first.
func HandleSessions(app *App) error {
	metas, err := app.Archive.List()
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}
	if len(metas) == 0 {
		fmt.Println("No saved conversations. Save one from the TUI with /save.")
		return nil
	}

	fmt.Printf("%-10s %-20s %-28s %s\n", "ID", "UPDATED", "MODEL", "SUMMARY")
	for _, m := range metas {
		id := m.ID
		if i := strings.IndexByte(id, '-'); i > 0 {
			id = id[:i]
		}
		fmt.Printf("%-10s %-20s %-28s %s\n",
			id,
			m.UpdatedAt.Format("2006-01-02 15:04"),
			catalog.DisplayName(m.Model),
			util.TruncateRunes(m.Summary, 50))
	}
	return nil
}

// HandleExport writes an archived conversation as Markdown to the
// working directory.
func HandleExport(app *App, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: birxuo export <id>")
	}
	id, err := resolveConversationID(app, args.Raw[0])
	if err != nil {
		return err
	}

	md, err := app.Archive.ExportMarkdown(id)
	if err != nil {
		return fmt.Errorf("export %s: %w", id, err)
	}

	short := id
	if i := strings.IndexByte(short, '-'); i > 0 {
		short = short[:i]
	}
	path := fmt.Sprintf("birxuo-%s.md", short)
	if err := util.AtomicWriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// HandleConfig prints the active configuration with secrets redacted.
func HandleConfig(app *App) error {
	fmt.Println(app.Config.String())
	fmt.Printf("OpenRouter key: %s\n", app.Client.APIKeyMasked())
	return nil
}

// resolveConversationID expands a short id prefix to the full stored id.
func resolveConversationID(app *App, prefix string) (string, error) {
	metas, err := app.Archive.List()
	if err != nil {
		return "", err
	}
	for _, m := range metas {
		if m.ID == prefix || strings.HasPrefix(m.ID, prefix) {
			return m.ID, nil
		}
	}
	return "", fmt.Errorf("no conversation matching %q", prefix)
}
