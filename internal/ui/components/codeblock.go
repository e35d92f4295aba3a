// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable rendering components for the TUI.
package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// HighlightCode applies syntax highlighting to code using chroma.
// Used for fenced blocks when full markdown rendering is disabled.
func HighlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// RenderFencedBlocks highlights every ```lang fenced block in content,
// leaving the prose between blocks untouched.
func RenderFencedBlocks(content string) string {
	if !strings.Contains(content, "```") {
		return content
	}

	var out strings.Builder
	rest := content
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])
		rest = rest[start+3:]

		end := strings.Index(rest, "```")
		if end < 0 {
			// Unterminated fence, emit as-is
			out.WriteString("```")
			out.WriteString(rest)
			break
		}

		block := rest[:end]
		rest = rest[end+3:]

		language := ""
		if nl := strings.IndexByte(block, '\n'); nl >= 0 {
			language = strings.TrimSpace(block[:nl])
			block = block[nl+1:]
		}
		out.WriteString(HighlightCode(block, language))
	}
	return out.String()
}
