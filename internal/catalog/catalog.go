// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog holds the static registry of OpenRouter models the
// application can dispatch to, plus the application build templates.
//
// The registry is read-only: it is the single source of truth for which
// model identifiers are valid, and is consulted by both the orchestrator
// and the UI.
package catalog

import "strings"

// =============================================================================
// MODEL DESCRIPTOR
// =============================================================================

// Speed tiers, slowest to fastest.
const (
	SpeedSlow     = "slow"
	SpeedMedium   = "medium"
	SpeedFast     = "fast"
	SpeedVeryFast = "very-fast"
)

// Quality tiers.
const (
	QualityUnknown     = "unknown"
	QualityHigh        = "high"
	QualityVeryHigh    = "very-high"
	QualityExceptional = "exceptional"
)

// ModelDescriptor contains the static metadata for one dispatchable model.
type ModelDescriptor struct {
	// ID is the model identifier used in OpenRouter API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`

	// Category groups the model for display: "reasoning", "chat",
	// "general", "multilingual", "multimodal", "experimental"
	Category string `json:"category"`

	// Capabilities are free-form capability tags
	Capabilities []string `json:"capabilities"`

	// Speed is the latency tier
	Speed string `json:"speed"`

	// Quality is the output quality tier
	Quality string `json:"quality"`
}

// HasCapability reports whether the model carries a capability tag.
func (m ModelDescriptor) HasCapability(tag string) bool {
	for _, c := range m.Capabilities {
		if strings.EqualFold(c, tag) {
			return true
		}
	}
	return false
}

// CapabilitiesString returns a comma-separated capability list for display.
func (m ModelDescriptor) CapabilitiesString() string {
	if len(m.Capabilities) == 0 {
		return "general purpose"
	}
	return strings.Join(m.Capabilities, ", ")
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// DefaultModelID is the model selected when no preference is stored.
const DefaultModelID = "qwen/qwen3-235b-a22b:free"

// Models is the ordered registry of known models. Display order matters:
// the UI lists models in this order.
var Models = []ModelDescriptor{
	{
		ID:           "deepseek/deepseek-r1:free",
		Name:         "DeepSeek-R1",
		Description:  "Advanced reasoning model for complex problem-solving.",
		Category:     "reasoning",
		Capabilities: []string{"reasoning", "coding", "math", "analysis"},
		Speed:        SpeedMedium,
		Quality:      QualityVeryHigh,
	},
	{
		ID:           "deepseek/deepseek-chat-v3-0324:free",
		Name:         "DeepSeek V3",
		Description:  "Ultra-fast conversational model optimized for real-time interactions.",
		Category:     "chat",
		Capabilities: []string{"conversation", "general-knowledge", "quick-responses"},
		Speed:        SpeedVeryFast,
		Quality:      QualityHigh,
	},
	{
		ID:           "cognitivecomputations/dolphin3.0-r1-mistral-24b:free",
		Name:         "Dolphin 3.0",
		Description:  "General-purpose model with enhanced coding and math capabilities.",
		Category:     "general",
		Capabilities: []string{"coding", "math", "functions", "agents"},
		Speed:        SpeedFast,
		Quality:      QualityHigh,
	},
	{
		ID:           "deepseek/deepseek-r1-distill-llama-70b:free",
		Name:         "Distill Llama 70B",
		Description:  "Distilled reasoning model combining Llama architecture with DeepSeek reasoning.",
		Category:     "reasoning",
		Capabilities: []string{"reasoning", "analysis", "research"},
		Speed:        SpeedMedium,
		Quality:      QualityVeryHigh,
	},
	{
		ID:           "qwen/qwq-32b:free",
		Name:         "Qwen 2.5",
		Description:  "Multilingual model with enhanced reasoning and conversational flow.",
		Category:     "multilingual",
		Capabilities: []string{"multilingual", "reasoning", "conversation"},
		Speed:        SpeedFast,
		Quality:      QualityHigh,
	},
	{
		ID:           "meta-llama/llama-4-maverick:free",
		Name:         "Llama 4 Maverick",
		Description:  "Mixture-of-experts model with 17B active parameters for multimodal tasks.",
		Category:     "multimodal",
		Capabilities: []string{"multimodal", "vision", "reasoning", "coding"},
		Speed:        SpeedMedium,
		Quality:      QualityVeryHigh,
	},
	{
		ID:           "microsoft/phi-4-reasoning-plus:free",
		Name:         "Phi-4 Reasoning+",
		Description:  "Enhanced reasoning model optimized for STEM subjects and coding.",
		Category:     "reasoning",
		Capabilities: []string{"math", "science", "coding", "reasoning"},
		Speed:        SpeedFast,
		Quality:      QualityVeryHigh,
	},
	{
		ID:           "qwen/qwen3-235b-a22b:free",
		Name:         "Qwen3 235B",
		Description:  "Massive parameter model with thinking mode for complex reasoning tasks.",
		Category:     "reasoning",
		Capabilities: []string{"reasoning", "thinking-mode", "multilingual", "agents"},
		Speed:        SpeedSlow,
		Quality:      QualityExceptional,
	},
	{
		ID:           "google/gemini-2.5-pro-exp-03-25:free",
		Name:         "Gemini Pro 2.5",
		Description:  "Excels in rapid multi-step reasoning and real-world scenarios.",
		Category:     "reasoning",
		Capabilities: []string{"reasoning", "real-world", "analysis"},
		Speed:        SpeedFast,
		Quality:      QualityVeryHigh,
	},
	{
		ID:           "openrouter/quasar-alpha",
		Name:         "Quasar Alpha",
		Description:  "Experimental cloaked model for users seeking cutting-edge capabilities.",
		Category:     "experimental",
		Capabilities: []string{"experimental", "long-context", "coding"},
		Speed:        SpeedMedium,
		Quality:      QualityUnknown,
	},
}

// =============================================================================
// LOOKUP FUNCTIONS
// =============================================================================

// Lookup returns the descriptor for a model id.
func Lookup(id string) (ModelDescriptor, bool) {
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelDescriptor{}, false
}

// IsKnown reports whether a model id is in the registry.
func IsKnown(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// DisplayName returns the model's display name, or the raw id when the
// model is not in the registry.
func DisplayName(id string) string {
	if m, ok := Lookup(id); ok {
		return m.Name
	}
	return id
}

// ByCategory returns all models in a category, in registry order.
func ByCategory(category string) []ModelDescriptor {
	var result []ModelDescriptor
	for _, m := range Models {
		if strings.EqualFold(m.Category, category) {
			result = append(result, m)
		}
	}
	return result
}

// Recommended task types.
const (
	TaskReasoning = "reasoning"
	TaskChat      = "chat"
	TaskCoding    = "coding"
	TaskCreative  = "creative"
)

// recommendations maps task types to preferred model ids.
var recommendations = map[string]string{
	TaskReasoning: "deepseek/deepseek-r1:free",
	TaskChat:      "deepseek/deepseek-chat-v3-0324:free",
	TaskCoding:    "microsoft/phi-4-reasoning-plus:free",
	TaskCreative:  "meta-llama/llama-4-maverick:free",
}

// Recommended returns the model descriptor recommended for a task type,
// falling back to the first registry entry for unknown tasks.
func Recommended(taskType string) ModelDescriptor {
	if id, ok := recommendations[taskType]; ok {
		if m, found := Lookup(id); found {
			return m
		}
	}
	return Models[0]
}

// IDs returns all model ids in registry order.
func IDs() []string {
	ids := make([]string, 0, len(Models))
	for _, m := range Models {
		ids = append(ids, m.ID)
	}
	return ids
}
