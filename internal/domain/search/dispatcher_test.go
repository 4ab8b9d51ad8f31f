package search_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glintlauncher/glint/internal/adapters/logging"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/search"
)

// fakeProvider is a scriptable provider for dispatcher tests.
type fakeProvider struct {
	id         string
	triggers   []string
	candidates []result.Candidate
	err        error
	delay      time.Duration
	calls      atomic.Int64
}

func (f *fakeProvider) ID() string { return f.id }

func (f *fakeProvider) Search(ctx context.Context, _ result.Query) ([]result.Candidate, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func (f *fakeProvider) Triggers() []string { return f.triggers }

func cands(ids ...string) []result.Candidate {
	out := make([]result.Candidate, len(ids))
	for i, id := range ids {
		out[i] = result.Candidate{ID: id, Title: id, Kind: result.KindApp}
	}
	return out
}

func newDispatcher(providers []search.Provider, opts ...search.DispatcherOption) *search.Dispatcher {
	return search.NewDispatcher(logging.NewNopLogger(), providers, opts...)
}

func TestDispatchEmptyQuerySkipsProviders(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{id: "apps", candidates: cands("a")}
	d := newDispatcher([]search.Provider{p})

	for _, text := range []string{"", "   ", "\t"} {
		got, err := d.Dispatch(context.Background(), result.NewQuery(text))
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Zero(t, p.calls.Load())
}

func TestDispatchMergesInRegistrationOrder(t *testing.T) {
	t.Parallel()

	first := &fakeProvider{id: "apps", candidates: cands("a1", "a2"), delay: 30 * time.Millisecond}
	second := &fakeProvider{id: "files", candidates: cands("f1")}
	d := newDispatcher([]search.Provider{first, second})

	got, err := d.Dispatch(context.Background(), result.NewQuery("x"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	// The slower first provider still merges first.
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a2", got[1].ID)
	assert.Equal(t, "f1", got[2].ID)
}

func TestDispatchIsolatesProviderFailures(t *testing.T) {
	t.Parallel()

	broken := &fakeProvider{id: "broken", err: errors.New("index offline")}
	healthy := &fakeProvider{id: "apps", candidates: cands("a")}
	d := newDispatcher([]search.Provider{broken, healthy})

	got, err := d.Dispatch(context.Background(), result.NewQuery("x"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestDispatchEnforcesProviderTimeout(t *testing.T) {
	t.Parallel()

	slow := &fakeProvider{id: "slow", candidates: cands("s"), delay: time.Second}
	fast := &fakeProvider{id: "fast", candidates: cands("f")}
	d := newDispatcher([]search.Provider{slow, fast},
		search.WithProviderTimeout(50*time.Millisecond))

	start := time.Now()
	got, err := d.Dispatch(context.Background(), result.NewQuery("x"))
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f", got[0].ID)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestDispatchTriggerRestrictsFanOut(t *testing.T) {
	t.Parallel()

	clip := &fakeProvider{id: "cliphist", triggers: []string{"cb:"}, candidates: cands("c")}
	apps := &fakeProvider{id: "apps", candidates: cands("a")}
	d := newDispatcher([]search.Provider{apps, clip})

	got, err := d.Dispatch(context.Background(), result.NewQuery("cb: token"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
	assert.Zero(t, apps.calls.Load(), "non-matching providers must not run")
}

func TestDispatchTriggerMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	clip := &fakeProvider{id: "cliphist", triggers: []string{"cb:"}, candidates: cands("c")}
	d := newDispatcher([]search.Provider{clip})

	got, err := d.Dispatch(context.Background(), result.NewQuery("CB: token"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDispatchQuickActionShortCircuits(t *testing.T) {
	t.Parallel()

	apps := &fakeProvider{id: "apps", candidates: cands("a")}
	d := newDispatcher([]search.Provider{apps})

	got, err := d.Dispatch(context.Background(), result.NewQuery("2 + 2"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].Title)
	assert.True(t, got[0].Pinned)
	assert.Zero(t, apps.calls.Load(), "quick actions must not fan out")
}

func TestDispatchTriggerWinsOverQuickAction(t *testing.T) {
	t.Parallel()

	// A provider trigger that shadows an engine prefix takes precedence.
	gp := &fakeProvider{id: "custom", triggers: []string{"g:"}, candidates: cands("g")}
	d := newDispatcher([]search.Provider{gp})

	got, err := d.Dispatch(context.Background(), result.NewQuery("g: query"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "g", got[0].ID)
}

func TestDispatchCancelledContext(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{id: "apps", candidates: cands("a")}
	d := newDispatcher([]search.Provider{p})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Dispatch(ctx, result.NewQuery("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatchNoProviders(t *testing.T) {
	t.Parallel()

	d := newDispatcher(nil)
	got, err := d.Dispatch(context.Background(), result.NewQuery("anything at all"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
