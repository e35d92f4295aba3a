// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package openrouter

// Wire-level tool names. The interpreter matches on these same strings
// when it scans a reply for a tool invocation.
const (
	ToolWebSearch   = "web_search_enhanced"
	ToolAnalyzeCode = "analyze_code"
	ToolProcessData = "process_data"
	ToolBuildApp    = "build_application_enhanced"
)

// Tool is a single tool declaration in the request payload.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction describes the callable surface of a declared tool.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func paramObject(props map[string]any, required ...string) map[string]any {
	obj := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		obj["required"] = required
	}
	return obj
}

// buildTools assembles the tool declarations for the enabled feature flags.
// Returns nil when no flag is set so the payload omits the tools field
// entirely.
func buildTools(flags FeatureFlags) []Tool {
	var tools []Tool

	if flags.WebSearch {
		tools = append(tools, Tool{
			Type: "function",
			Function: ToolFunction{
				Name:        ToolWebSearch,
				Description: "Search the web for current information with enhanced results",
				Parameters: paramObject(map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query",
					},
				}, "query"),
			},
		})
	}

	if flags.AdvancedTools {
		tools = append(tools,
			Tool{
				Type: "function",
				Function: ToolFunction{
					Name:        ToolAnalyzeCode,
					Description: "Analyze code for issues, improvements, and best practices",
					Parameters: paramObject(map[string]any{
						"code": map[string]any{
							"type":        "string",
							"description": "The code to analyze",
						},
						"language": map[string]any{
							"type":        "string",
							"description": "Programming language of the code",
						},
					}, "code"),
				},
			},
			Tool{
				Type: "function",
				Function: ToolFunction{
					Name:        ToolProcessData,
					Description: "Process and analyze structured data",
					Parameters: paramObject(map[string]any{
						"data": map[string]any{
							"type":        "string",
							"description": "JSON data to process",
						},
						"operation": map[string]any{
							"type":        "string",
							"description": "Operation to perform: analyze or summarize",
						},
					}, "data"),
				},
			},
		)
	}

	if flags.AppBuilding {
		tools = append(tools, Tool{
			Type: "function",
			Function: ToolFunction{
				Name:        ToolBuildApp,
				Description: "Build a complete application from a template with customizations",
				Parameters: paramObject(map[string]any{
					"template": map[string]any{
						"type":        "string",
						"description": "Application template identifier",
					},
					"name": map[string]any{
						"type":        "string",
						"description": "Name for the generated application",
					},
				}, "template"),
			},
		})
	}

	return tools
}
