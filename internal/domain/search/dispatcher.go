package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/glintlauncher/glint/internal/domain/quickaction"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/ports"
)

// DefaultProviderTimeout bounds each provider's contribution to one dispatch.
const DefaultProviderTimeout = 500 * time.Millisecond

// Dispatcher fans a query out to registered providers and merges their
// candidates. Classification happens before any provider runs: a trigger
// match restricts fan-out to the matching providers, and a quick-action
// match short-circuits fan-out entirely.
type Dispatcher struct {
	providers []Provider
	detector  *quickaction.Detector
	timeout   time.Duration
	logger    ports.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithProviderTimeout overrides the per-provider deadline.
func WithProviderTimeout(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.timeout = d
		}
	}
}

// WithDetector overrides the quick-action detector.
func WithDetector(det *quickaction.Detector) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.detector = det
	}
}

// NewDispatcher creates a dispatcher over the given providers. Provider
// order is preserved in merged output.
func NewDispatcher(logger ports.Logger, providers []Provider, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		providers: providers,
		detector:  quickaction.NewDetector(),
		timeout:   DefaultProviderTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch resolves a query into unranked candidates. An empty query
// returns nothing without consulting any provider. Provider failures are
// logged and skipped; Dispatch itself only fails on context cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, query result.Query) ([]result.Candidate, error) {
	if query.IsEmpty() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if matching := d.triggerMatches(query); len(matching) > 0 {
		return d.fanOut(ctx, query, matching), nil
	}

	if c, ok := d.detector.Detect(query); ok {
		return []result.Candidate{c}, nil
	}

	return d.fanOut(ctx, query, d.providers), nil
}

// triggerMatches returns the trigger providers whose prefixes match the
// query. Any match switches dispatch into trigger mode.
func (d *Dispatcher) triggerMatches(query result.Query) []Provider {
	lower := strings.ToLower(strings.TrimSpace(query.Text))

	var matching []Provider
	for _, p := range d.providers {
		tp, ok := p.(TriggerProvider)
		if !ok {
			continue
		}
		for _, t := range tp.Triggers() {
			if strings.HasPrefix(lower, strings.ToLower(t)) {
				matching = append(matching, p)
				break
			}
		}
	}
	return matching
}

// fanOut queries the given providers concurrently, each under its own
// deadline, and merges results in provider registration order.
func (d *Dispatcher) fanOut(ctx context.Context, query result.Query, providers []Provider) []result.Candidate {
	slots := make([][]result.Candidate, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()

			pctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			start := time.Now()
			candidates, err := p.Search(pctx, query)
			if err != nil {
				d.logger.Warn(ctx, "provider failed",
					ports.F("provider", p.ID()),
					ports.F("error", err.Error()),
					ports.F("elapsed", time.Since(start).String()))
				return
			}
			slots[i] = candidates
		}(i, p)
	}
	wg.Wait()

	var merged []result.Candidate
	for _, s := range slots {
		merged = append(merged, s...)
	}
	return merged
}
