// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/birxuo/birxuo-tui/internal/config"
	"github.com/birxuo/birxuo-tui/internal/session"
	"github.com/birxuo/birxuo-tui/internal/store"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/model <id>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString   ArgType = iota // Free-form string
	ArgTypeModel                   // Model id from the catalog
	ArgTypeSession                 // Archived conversation id
	ArgTypeEnum                    // One of predefined values
	ArgTypeVoice                   // Synthesis voice name
	ArgTypeTemplate                // Application template id
)

// onOff is the shared enum for feature toggle commands.
var onOff = []string{"on", "off"}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Context provides command handlers access to application state.
// Any field may be nil; handlers degrade to a notice when a dependency
// they need is absent.
type Context struct {
	// Session holds the live conversation state
	Session *session.Session

	// Settings is the persisted key-value configuration store
	Settings *store.Settings

	// Archive persists saved conversations
	Archive *store.Archive

	// Config is the file-backed application configuration
	Config *config.Config
}

// NewContext creates a command context with the given dependencies.
func NewContext(sess *session.Session, settings *store.Settings, archive *store.Archive, cfg *config.Config) *Context {
	return &Context{
		Session:  sess,
		Settings: settings,
		Archive:  archive,
		Config:   cfg,
	}
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help [category]",
		Args: []ArgDef{
			{
				Name:        "category",
				Required:    false,
				Type:        ArgTypeEnum,
				Values:      []string{"navigation", "conversation", "models", "features", "speech"},
				Description: "Help category",
			},
		},
		Category: "Navigation",
		Handler:  handleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit BIRXUO",
		Category:    "Navigation",
		Handler:     handleQuit,
	})

	r.Register(&Command{
		Name:        "/status",
		Description: "Show current model, flags, and conversation size",
		Category:    "Navigation",
		Handler:     handleStatus,
	})

	// Conversation commands
	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c", "/new"},
		Description: "Clear conversation history",
		Category:    "Conversation",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "/save",
		Aliases:     []string{"/s"},
		Description: "Archive the current conversation",
		Usage:       "/save [name]",
		Args: []ArgDef{
			{Name: "name", Required: false, Type: ArgTypeString, Description: "Optional summary for the archive entry"},
		},
		Category: "Conversation",
		Handler:  handleSave,
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l", "/resume"},
		Description: "Restore an archived conversation",
		Usage:       "/load <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeSession, Description: "Archive entry id"},
		},
		Category: "Conversation",
		Handler:  handleLoad,
	})

	r.Register(&Command{
		Name:        "/sessions",
		Aliases:     []string{"/list"},
		Description: "List archived conversations",
		Category:    "Conversation",
		Handler:     handleSessions,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export an archived conversation to Markdown",
		Usage:       "/export <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeSession, Description: "Archive entry id"},
		},
		Category: "Conversation",
		Handler:  handleExport,
	})

	// Model commands
	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Switch the active model",
		Usage:       "/model <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeModel, Description: "Model id from the catalog"},
		},
		Category: "Models",
		Handler:  handleModel,
	})

	r.Register(&Command{
		Name:        "/models",
		Description: "List available models",
		Category:    "Models",
		Handler:     handleModels,
	})

	r.Register(&Command{
		Name:        "/compare",
		Description: "Manage the multi-model comparison set",
		Usage:       "/compare <add|remove|list> [id]",
		Args: []ArgDef{
			{
				Name:        "action",
				Required:    true,
				Type:        ArgTypeEnum,
				Values:      []string{"add", "remove", "list"},
				Description: "Comparison set operation",
			},
			{Name: "id", Required: false, Type: ArgTypeModel, Description: "Model id to add or remove"},
		},
		Category: "Models",
		Handler:  handleCompare,
	})

	r.Register(&Command{
		Name:        "/multimodel",
		Description: "Toggle multi-model comparison mode",
		Usage:       "/multimodel <on|off>",
		Args: []ArgDef{
			{Name: "state", Required: true, Type: ArgTypeEnum, Values: onOff, Description: "Enable or disable"},
		},
		Category: "Models",
		Handler:  handleMultiModel,
	})

	// Feature toggles
	r.Register(&Command{
		Name:        "/websearch",
		Description: "Toggle enhanced web search",
		Usage:       "/websearch <on|off>",
		Args: []ArgDef{
			{Name: "state", Required: true, Type: ArgTypeEnum, Values: onOff, Description: "Enable or disable"},
		},
		Category: "Features",
		Handler:  handleWebSearch,
	})

	r.Register(&Command{
		Name:        "/appbuild",
		Description: "Toggle application building tools",
		Usage:       "/appbuild <on|off>",
		Args: []ArgDef{
			{Name: "state", Required: true, Type: ArgTypeEnum, Values: onOff, Description: "Enable or disable"},
		},
		Category: "Features",
		Handler:  handleAppBuild,
	})

	r.Register(&Command{
		Name:        "/templates",
		Description: "List application templates",
		Category:    "Features",
		Handler:     handleTemplates,
	})

	r.Register(&Command{
		Name:        "/template",
		Aliases:     []string{"/t"},
		Description: "Insert an application template prompt",
		Usage:       "/template <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeTemplate, Description: "Template id"},
		},
		Category: "Features",
		Handler:  handleTemplate,
	})

	// Speech commands
	r.Register(&Command{
		Name:        "/audio",
		Description: "Toggle speech synthesis of replies",
		Usage:       "/audio <on|off>",
		Args: []ArgDef{
			{Name: "state", Required: true, Type: ArgTypeEnum, Values: onOff, Description: "Enable or disable"},
		},
		Category: "Speech",
		Handler:  handleAudio,
	})

	r.Register(&Command{
		Name:        "/voice",
		Description: "Switch the synthesis voice",
		Usage:       "/voice <name>",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeVoice, Description: "Voice name or id"},
		},
		Category: "Speech",
		Handler:  handleVoice,
	})

	r.Register(&Command{
		Name:        "/voices",
		Description: "List synthesis voices",
		Category:    "Speech",
		Handler:     handleVoices,
	})
}

// =============================================================================
// COMPLETION TYPES
// =============================================================================

// Completion represents a single completion suggestion.
type Completion struct {
	// Value is the text to insert
	Value string

	// Display is what to show in the completion menu
	Display string

	// Description provides additional context
	Description string

	// Score for ranking (higher = better)
	Score int
}
