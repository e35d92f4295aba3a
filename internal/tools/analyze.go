// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// analyze.go implements the code analysis and data processing executors.
// Both produce fixed-shape JSON reports that feed back into the
// conversation; neither inspects the inputs deeply.
package tools

import (
	"encoding/json"
	"fmt"
)

// codeAnalysisReport is the fixed shape of an analyze_code result.
type codeAnalysisReport struct {
	Security    string   `json:"security"`
	Performance string   `json:"performance"`
	Quality     string   `json:"quality"`
	Suggestions []string `json:"suggestions"`
}

// AnalyzeCode produces an analysis report for the given code as a JSON
// string. The report is advisory boilerplate rather than a real static
// analysis; the model turns it into concrete recommendations on the
// augmentation pass.
func AnalyzeCode(code, language string) string {
	report := codeAnalysisReport{
		Security:    "Code appears secure with no obvious vulnerabilities detected.",
		Performance: "Code shows good performance characteristics with potential for optimization.",
		Quality:     "Code follows good practices with clear structure and readability.",
		Suggestions: []string{
			"Consider adding error handling for edge cases",
			"Review variable naming for consistency",
			"Add documentation for complex functions",
		},
	}

	out, err := json.Marshal(report)
	if err != nil {
		return `{"error":"analysis failed"}`
	}
	return string(out)
}

// ProcessData parses data as JSON and applies the named operation,
// returning a JSON result string. Malformed input yields a structured
// error payload instead of aborting the augmentation.
func ProcessData(data, operation string) string {
	var parsed any
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		out, _ := json.Marshal(map[string]string{
			"error":   "Failed to process data",
			"details": err.Error(),
		})
		return string(out)
	}

	switch operation {
	case "analyze":
		records := 1
		if arr, ok := parsed.([]any); ok {
			records = len(arr)
		}
		out, _ := json.Marshal(map[string]any{
			"total_records": records,
			"data_types":    fmt.Sprintf("%T", parsed),
			"analysis":      "Data analysis complete with insights generated.",
		})
		return string(out)
	case "summarize":
		out, _ := json.Marshal(map[string]any{
			"summary":      "Data summarized successfully",
			"key_insights": []string{"Pattern detected", "Trends identified", "Recommendations generated"},
		})
		return string(out)
	default:
		out, _ := json.Marshal(map[string]string{
			"result": "Data processed successfully",
		})
		return string(out)
	}
}
