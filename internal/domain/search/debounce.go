package search

import (
	"context"
	"sync"
	"time"

	"github.com/glintlauncher/glint/internal/domain/result"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// dispatch fires.
const DefaultDebounce = 150 * time.Millisecond

// SearchFunc resolves a query into ranked candidates.
type SearchFunc func(ctx context.Context, query result.Query) ([]result.Candidate, error)

// ResultsFunc receives the candidates for a completed search.
type ResultsFunc func(query result.Query, candidates []result.Candidate)

// Controller debounces a keystroke stream into search dispatches. A new
// keystroke restarts the quiet period and cancels any in-flight dispatch;
// results are delivered only while their query is still the latest, so the
// consumer never sees stale results after typing has moved on.
type Controller struct {
	search    SearchFunc
	onResults ResultsFunc
	delay     time.Duration

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	pending    result.Query
	cancel     context.CancelFunc
	closed     bool
}

// NewController creates a debounce controller delivering results to
// onResults.
func NewController(search SearchFunc, onResults ResultsFunc, delay time.Duration) *Controller {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Controller{
		search:    search,
		onResults: onResults,
		delay:     delay,
	}
}

// Keystroke feeds the current input text. The dispatch fires after the
// quiet period unless another keystroke arrives first.
func (c *Controller) Keystroke(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.generation++
	gen := c.generation

	// Supersede: stop the pending timer and abort any in-flight dispatch.
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	query := result.NewQuery(text)
	c.pending = query
	c.timer = time.AfterFunc(c.delay, func() {
		c.dispatch(gen, query)
	})
}

// Flush fires the pending dispatch immediately, if any.
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.closed || c.timer == nil || !c.timer.Stop() {
		c.mu.Unlock()
		return
	}
	gen := c.generation
	query := c.pending
	c.mu.Unlock()

	c.dispatch(gen, query)
}

// dispatch runs the search for a generation and delivers results only if
// that generation is still current when the search completes.
func (c *Controller) dispatch(gen uint64, query result.Query) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	candidates, err := c.search(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return
	}
	c.cancel = nil
	if err != nil {
		return
	}
	c.onResults(query, candidates)
}

// Close stops the controller. Pending and in-flight dispatches are
// abandoned; no results are delivered after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
