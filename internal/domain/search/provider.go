// Package search implements the unified search pipeline: fan-out dispatch
// across providers, debounced query streams, and the engine that ties
// dispatch to ranking.
package search

import (
	"context"

	"github.com/glintlauncher/glint/internal/domain/result"
)

// Provider is a single source of search candidates. Implementations must be
// safe for concurrent Search calls and should honor context cancellation
// promptly; the dispatcher enforces a deadline regardless.
type Provider interface {
	// ID identifies the provider in logs and candidate attribution.
	ID() string

	// Search returns unranked candidates for the query. An error marks the
	// provider's contribution as failed for this dispatch only; it never
	// fails the dispatch itself.
	Search(ctx context.Context, query result.Query) ([]result.Candidate, error)
}

// TriggerProvider is a provider that only participates when the query
// carries one of its trigger prefixes (e.g. "cb:"). When a dispatch matches
// a trigger, fan-out is restricted to the matching trigger providers.
type TriggerProvider interface {
	Provider

	// Triggers returns the prefixes that route queries to this provider.
	// Matching is case-insensitive.
	Triggers() []string
}
