// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// archive.go persists finished conversations as JSON files, one per
// conversation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/birxuo/birxuo-tui/internal/session"
	"github.com/birxuo/birxuo-tui/internal/util"
)

// ErrConversationNotFound indicates the requested archive entry does not exist.
var ErrConversationNotFound = errors.New("conversation not found")

// ArchivedConversation is a persisted conversation.
type ArchivedConversation struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Turns []session.Turn `json:"turns"`
}

// ConversationMeta contains metadata for listing archived conversations.
type ConversationMeta struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	Model     string    `json:"model"`
	UpdatedAt time.Time `json:"updated_at"`
	TurnCount int       `json:"turn_count"`
	Preview   string    `json:"preview"`
}

// Archive stores conversations as JSON files under a base directory.
type Archive struct {
	// BaseDir is the directory holding one JSON file per conversation.
	BaseDir string

	// MaxConversations limits stored conversations (0 = unlimited).
	MaxConversations int
}

// NewArchive creates an archive rooted at baseDir.
func NewArchive(baseDir string) (*Archive, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Archive{
		BaseDir:          baseDir,
		MaxConversations: 100,
	}, nil
}

// Save persists a conversation and returns its ID. A missing ID or
// summary is filled in.
func (a *Archive) Save(conv *ArchivedConversation) (string, error) {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	if conv.Summary == "" {
		conv.Summary = summarize(conv.Turns)
	}
	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return "", err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(a.filePath(conv.ID), data, 0644); err != nil {
		return "", err
	}

	if a.MaxConversations > 0 {
		a.enforceLimit()
	}
	return conv.ID, nil
}

// summarize derives a one-line summary from the first user turn.
func summarize(turns []session.Turn) string {
	for _, turn := range turns {
		if turn.Role == session.RoleUser && turn.Content != "" {
			content := strings.ReplaceAll(turn.Content, "\n", " ")
			content = strings.ReplaceAll(content, "\r", "")
			// UNICODE: Rune-aware truncation preserves multi-byte characters
			return util.TruncateRunes(content, 50)
		}
	}
	return "New conversation"
}

// Load retrieves a conversation by ID.
func (a *Archive) Load(id string) (*ArchivedConversation, error) {
	data, err := os.ReadFile(a.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	var conv ArchivedConversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// List returns all archived conversations, most recent first.
func (a *Archive) List() ([]ConversationMeta, error) {
	entries, err := os.ReadDir(a.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ConversationMeta{}, nil
		}
		return nil, err
	}

	var metas []ConversationMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		conv, err := a.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // Skip corrupted files
		}

		preview := ""
		for _, turn := range conv.Turns {
			if turn.Role == session.RoleUser {
				preview = util.TruncateRunes(turn.Content, 80)
				break
			}
		}

		metas = append(metas, ConversationMeta{
			ID:        conv.ID,
			Summary:   conv.Summary,
			Model:     conv.Model,
			UpdatedAt: conv.UpdatedAt,
			TurnCount: len(conv.Turns),
			Preview:   preview,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Search finds conversations whose summary or preview contains the query
// (case-insensitive).
func (a *Archive) Search(query string) ([]ConversationMeta, error) {
	all, err := a.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []ConversationMeta
	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Summary), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}
	return results, nil
}

// Delete removes a conversation by ID.
func (a *Archive) Delete(id string) error {
	if err := os.Remove(a.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrConversationNotFound
		}
		return err
	}
	return nil
}

// ExportMarkdown renders a conversation as a Markdown document.
func (a *Archive) ExportMarkdown(id string) (string, error) {
	conv, err := a.Load(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", conv.Summary)
	fmt.Fprintf(&b, "Model: %s  \nSaved: %s\n\n", conv.Model, conv.UpdatedAt.Format(time.RFC3339))

	for _, turn := range conv.Turns {
		switch turn.Role {
		case session.RoleUser:
			fmt.Fprintf(&b, "## User\n\n%s\n\n", turn.Content)
		case session.RoleAssistant:
			if turn.ModelID != "" {
				fmt.Fprintf(&b, "## Assistant (%s)\n\n%s\n\n", turn.ModelID, turn.Content)
			} else {
				fmt.Fprintf(&b, "## Assistant\n\n%s\n\n", turn.Content)
			}
		}
	}
	return b.String(), nil
}

// enforceLimit removes the oldest conversations when over the limit.
func (a *Archive) enforceLimit() {
	metas, err := a.List()
	if err != nil || len(metas) <= a.MaxConversations {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})
	for i := 0; i < len(metas)-a.MaxConversations; i++ {
		a.Delete(metas[i].ID)
	}
}

func (a *Archive) filePath(id string) string {
	return filepath.Join(a.BaseDir, id+".json")
}
