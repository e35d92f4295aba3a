// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package openrouter

// ErrorKind classifies a completion failure.
type ErrorKind string

// The error taxonomy. Every failure the client can produce maps to
// exactly one of these kinds.
const (
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindRateLimited       ErrorKind = "rate_limited"
	KindModelUnavailable  ErrorKind = "model_unavailable"
	KindNetworkFailure    ErrorKind = "network_failure"
	KindUnknown           ErrorKind = "unknown"
)

// Error is a typed completion failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Outcome is the result of one completion dispatch: either a text payload
// or a typed error, never both.
type Outcome struct {
	Text string
	Err  *Error
}

// OK reports whether the outcome carries a successful text payload.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// TextOutcome wraps a successful payload.
func TextOutcome(text string) Outcome {
	return Outcome{Text: text}
}

// ErrOutcome wraps a typed failure.
func ErrOutcome(kind ErrorKind, message string) Outcome {
	return Outcome{Err: &Error{Kind: kind, Message: message}}
}

// FeatureFlags selects which tool declarations are attached to a request.
type FeatureFlags struct {
	// WebSearch declares the web search tool
	WebSearch bool

	// AppBuilding declares the application builder tool
	AppBuilding bool

	// AdvancedTools declares the code analysis and data processing tools
	AdvancedTools bool
}

// Any reports whether any tool flag is set.
func (f FeatureFlags) Any() bool {
	return f.WebSearch || f.AppBuilding || f.AdvancedTools
}
