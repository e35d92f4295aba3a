// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the conversation state for one chat session:
// the ordered turn list, the request lifecycle, and the model selection
// including the multi-model comparison set.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is a single conversation turn.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// ModelID records which model produced an assistant turn.
	// Empty for user turns; display-only metadata, never sent upstream.
	ModelID string `json:"model_id,omitempty"`
}

// NewUserTurn creates a user turn with a fresh id.
func NewUserTurn(content string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantTurn creates an assistant turn attributed to a model.
func NewAssistantTurn(content, modelID string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
		ModelID:   modelID,
	}
}
