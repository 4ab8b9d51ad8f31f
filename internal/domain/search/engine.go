package search

import (
	"context"
	"sync"

	"github.com/glintlauncher/glint/internal/domain/rank"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/ports"
)

// DefaultResultLimit caps how many ranked candidates one search returns.
const DefaultResultLimit = 30

// Engine ties dispatch to ranking. It is the single entry point the UI
// layer calls per query.
type Engine struct {
	dispatcher *Dispatcher
	usage      ports.UsageStore
	logger     ports.Logger
	limit      int

	mu      sync.RWMutex
	weights rank.Weights
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWeights overrides the ranking weights.
func WithWeights(w rank.Weights) EngineOption {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithResultLimit overrides the ranked result cap.
func WithResultLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// NewEngine creates a search engine.
func NewEngine(dispatcher *Dispatcher, usage ports.UsageStore, logger ports.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		dispatcher: dispatcher,
		usage:      usage,
		logger:     logger,
		limit:      DefaultResultLimit,
		weights:    rank.DefaultWeights(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetWeights replaces the ranking weights for subsequent searches.
func (e *Engine) SetWeights(w rank.Weights) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.weights = w
}

// Weights returns the current ranking weights.
func (e *Engine) Weights() rank.Weights {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights
}

// Search dispatches the query and returns ranked candidates. A failed
// usage snapshot degrades to frequency-blind ranking rather than failing
// the search.
func (e *Engine) Search(ctx context.Context, query result.Query) ([]result.Candidate, error) {
	candidates, err := e.dispatcher.Dispatch(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	usage, err := e.usage.Snapshot(ctx)
	if err != nil {
		e.logger.Warn(ctx, "usage snapshot unavailable", ports.F("error", err.Error()))
		usage = nil
	}

	ranked := rank.Rank(candidates, query, e.Weights(), usage)
	if len(ranked) > e.limit {
		ranked = ranked[:e.limit]
	}
	return ranked, nil
}
