// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

// AppTemplate describes a prebuilt application prompt the assistant can
// expand when app building is enabled.
type AppTemplate struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Prompt        string `json:"prompt"`
	Category      string `json:"category"`
	Complexity    string `json:"complexity"` // "beginner", "intermediate", "advanced"
	EstimatedTime string `json:"estimated_time"`
}

// AppTemplates is the static template catalog.
var AppTemplates = []AppTemplate{
	{
		ID:            "ai-chat-bot",
		Name:          "AI Chat Bot",
		Description:   "Advanced conversational AI interface with context memory and personality.",
		Prompt:        "Create an intelligent chat bot application with conversation memory, personality customization, and advanced natural language processing capabilities.",
		Category:      "AI/ML",
		Complexity:    "advanced",
		EstimatedTime: "2-3 hours",
	},
	{
		ID:            "data-visualization",
		Name:          "Interactive Dashboard",
		Description:   "Real-time data visualization dashboard with multiple chart types and filters.",
		Prompt:        "Build a comprehensive data visualization dashboard with real-time charts, interactive filters, and responsive design for business analytics.",
		Category:      "Analytics",
		Complexity:    "intermediate",
		EstimatedTime: "1-2 hours",
	},
	{
		ID:            "crypto-tracker",
		Name:          "Cryptocurrency Tracker",
		Description:   "Real-time crypto price tracker with portfolio management and alerts.",
		Prompt:        "Develop a cryptocurrency tracking application with real-time price updates, portfolio management, and customizable alerts.",
		Category:      "Finance",
		Complexity:    "intermediate",
		EstimatedTime: "1.5-2 hours",
	},
	{
		ID:            "task-automation",
		Name:          "Task Automation Hub",
		Description:   "Workflow automation platform with visual editor and integrations.",
		Prompt:        "Create a task automation platform with visual workflow editor, third-party integrations, and scheduled execution.",
		Category:      "Productivity",
		Complexity:    "advanced",
		EstimatedTime: "3-4 hours",
	},
	{
		ID:            "social-media-manager",
		Name:          "Social Media Manager",
		Description:   "Comprehensive social media management tool with scheduling and analytics.",
		Prompt:        "Build a social media management application with post scheduling, analytics dashboard, and multi-platform support.",
		Category:      "Marketing",
		Complexity:    "advanced",
		EstimatedTime: "2-3 hours",
	},
}

// TemplateByID returns the template with the given id.
func TemplateByID(id string) (AppTemplate, bool) {
	for _, t := range AppTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return AppTemplate{}, false
}

// TemplateIDs returns all template ids in catalog order.
func TemplateIDs() []string {
	ids := make([]string, 0, len(AppTemplates))
	for _, t := range AppTemplates {
		ids = append(ids, t.ID)
	}
	return ids
}
