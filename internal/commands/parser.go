// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the result of parsing user input.
type ParseResult struct {
	// IsCommand is true if the input starts with /
	IsCommand bool

	// Command is the matched command (nil if not found)
	Command *Command

	// CommandName is the raw command name (e.g., "/help")
	CommandName string

	// Args are the parsed arguments
	Args []string

	// RawInput is the original input string
	RawInput string

	// Error is set when the command is unknown or its arguments
	// fail validation
	Error error
}

// =============================================================================
// PARSER
// =============================================================================

// Parser handles parsing of slash commands and their arguments.
type Parser struct {
	registry *Registry
}

// NewParser creates a new parser with the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse parses user input and returns the parse result.
// Returns IsCommand=false if the input doesn't start with /.
// A matched command has its arguments validated before the result
// is returned, so callers can dispatch on Error alone.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)

	result := ParseResult{RawInput: input}
	if !strings.HasPrefix(input, "/") {
		return result
	}
	result.IsCommand = true

	parts := splitCommandLine(input)
	if len(parts) == 0 {
		return result
	}

	result.CommandName = parts[0]
	if len(parts) > 1 {
		result.Args = parts[1:]
	}

	result.Command = p.registry.Get(result.CommandName)
	if result.Command == nil {
		result.Error = &ValidationError{
			Command: result.CommandName,
			Message: "unknown command",
		}
		return result
	}

	result.Error = ValidateArgs(result.Command, result.Args)
	return result
}

// =============================================================================
// TOKENIZER
// =============================================================================

// splitCommandLine splits a command line into tokens, respecting quotes.
// Supports both single and double quotes for arguments with spaces.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool

	for i := 0; i < len(input); i++ {
		char := rune(input[i])

		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote

		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote

		case char == '\\' && i+1 < len(input) && (inDoubleQuote || inSingleQuote):
			// Escape sequence inside quotes
			next := rune(input[i+1])
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteRune(next)
				i++
			} else {
				current.WriteRune(char)
			}

		case unicode.IsSpace(char) && !inSingleQuote && !inDoubleQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsCommand returns true if the input appears to be a command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName extracts just the command name from input.
// e.g., "/model deepseek/deepseek-r1:free" -> "/model"
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}

	end := strings.IndexFunc(input, unicode.IsSpace)
	if end == -1 {
		return input
	}
	return input[:end]
}

// ValidateArgs validates arguments against a command's argument definitions.
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}

	for i, argDef := range cmd.Args {
		if argDef.Required && i >= len(args) {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      argDef.Name,
				Message:  "required argument missing",
				Expected: argDef.Description,
			}
		}

		if i < len(args) && argDef.Type == ArgTypeEnum && len(argDef.Values) > 0 {
			valid := false
			for _, v := range argDef.Values {
				if strings.EqualFold(args[i], v) {
					valid = true
					break
				}
			}
			if !valid {
				return &ValidationError{
					Command:  cmd.Name,
					Arg:      argDef.Name,
					Message:  "invalid value",
					Got:      args[i],
					Expected: strings.Join(argDef.Values, ", "),
				}
			}
		}
	}

	return nil
}

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError represents an argument validation error.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	msg := e.Command + ": " + e.Message
	if e.Arg != "" {
		msg += " for argument '" + e.Arg + "'"
	}
	if e.Got != "" {
		msg += " (got: " + e.Got + ")"
	}
	if e.Expected != "" {
		msg += " - expected: " + e.Expected
	}
	return msg
}
