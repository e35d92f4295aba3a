// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package openrouter

import (
	"context"
	"fmt"
	"sync"
)

// CompleteFunc produces one outcome for one model. The multi-model
// dispatcher fans a transcript out across several of these.
type CompleteFunc func(ctx context.Context, modelID string) Outcome

// CompleteMany runs fn once per model id concurrently and joins the
// results into a map keyed by model id.
//
// Each branch is fully isolated: one model failing, hanging until its
// timeout, or even panicking never disturbs the others. The returned map
// always contains exactly one entry per requested id.
func CompleteMany(ctx context.Context, modelIDs []string, fn CompleteFunc) map[string]Outcome {
	outcomes := make(map[string]Outcome, len(modelIDs))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range modelIDs {
		wg.Add(1)
		go func(modelID string) {
			defer wg.Done()

			outcome := runIsolated(ctx, modelID, fn)

			mu.Lock()
			outcomes[modelID] = outcome
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return outcomes
}

// runIsolated invokes fn, converting a panic in the branch into an
// unknown-kind outcome so the join above always completes.
func runIsolated(ctx context.Context, modelID string, fn CompleteFunc) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = ErrOutcome(KindUnknown, fmt.Sprintf("completion panicked: %v", r))
		}
	}()
	return fn(ctx, modelID)
}

// CompleteMany dispatches the same transcript to every model id using
// this client and joins the per-model outcomes.
func (c *Client) CompleteMany(ctx context.Context, messages []Message, modelIDs []string, flags FeatureFlags) map[string]Outcome {
	return CompleteMany(ctx, modelIDs, func(ctx context.Context, modelID string) Outcome {
		return c.Complete(ctx, messages, modelID, flags)
	})
}
