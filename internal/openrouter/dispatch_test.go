// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package openrouter

import (
	"context"
	"testing"
)

func TestCompleteManyKeySet(t *testing.T) {
	tests := []struct {
		name     string
		modelIDs []string
	}{
		{"single model", []string{"a/one"}},
		{"two models", []string{"a/one", "b/two"}},
		{"three models", []string{"a/one", "b/two", "c/three"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes := CompleteMany(context.Background(), tt.modelIDs, func(ctx context.Context, modelID string) Outcome {
				return TextOutcome("reply from " + modelID)
			})

			if len(outcomes) != len(tt.modelIDs) {
				t.Fatalf("got %d outcomes, want %d", len(outcomes), len(tt.modelIDs))
			}
			for _, id := range tt.modelIDs {
				outcome, ok := outcomes[id]
				if !ok {
					t.Errorf("missing outcome for %q", id)
					continue
				}
				if outcome.Text != "reply from "+id {
					t.Errorf("outcome for %q = %q", id, outcome.Text)
				}
			}
		})
	}
}

func TestCompleteManyBranchIsolation(t *testing.T) {
	outcomes := CompleteMany(context.Background(), []string{"good", "bad", "also-good"}, func(ctx context.Context, modelID string) Outcome {
		if modelID == "bad" {
			return ErrOutcome(KindRateLimited, "Rate limit exceeded")
		}
		return TextOutcome("ok")
	})

	if !outcomes["good"].OK() || !outcomes["also-good"].OK() {
		t.Error("healthy branches disturbed by a failing sibling")
	}
	if outcomes["bad"].OK() {
		t.Error("failing branch reported success")
	}
	if outcomes["bad"].Err.Kind != KindRateLimited {
		t.Errorf("Kind = %q, want %q", outcomes["bad"].Err.Kind, KindRateLimited)
	}
}

func TestCompleteManyPanicIsolation(t *testing.T) {
	outcomes := CompleteMany(context.Background(), []string{"steady", "explosive"}, func(ctx context.Context, modelID string) Outcome {
		if modelID == "explosive" {
			panic("boom")
		}
		return TextOutcome("ok")
	})

	if !outcomes["steady"].OK() {
		t.Error("healthy branch disturbed by a panicking sibling")
	}
	crashed := outcomes["explosive"]
	if crashed.OK() {
		t.Fatal("panicking branch reported success")
	}
	if crashed.Err.Kind != KindUnknown {
		t.Errorf("Kind = %q, want %q", crashed.Err.Kind, KindUnknown)
	}
}

func TestCompleteManyEmpty(t *testing.T) {
	outcomes := CompleteMany(context.Background(), nil, func(ctx context.Context, modelID string) Outcome {
		t.Error("fn invoked with no model ids")
		return Outcome{}
	})
	if len(outcomes) != 0 {
		t.Errorf("got %d outcomes, want 0", len(outcomes))
	}
}
