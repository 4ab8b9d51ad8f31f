package action_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glintlauncher/glint/internal/adapters/logging"
	"github.com/glintlauncher/glint/internal/adapters/usage"
	"github.com/glintlauncher/glint/internal/domain/action"
	"github.com/glintlauncher/glint/internal/domain/capability"
	"github.com/glintlauncher/glint/internal/domain/intent"
)

// fakeSinks records side effects and can be scripted to fail.
type fakeSinks struct {
	launched  []string
	opened    []string
	clipboard []string
	notified  []string
	fail      error
}

func (f *fakeSinks) Launch(_ context.Context, path string) error {
	if f.fail != nil {
		return f.fail
	}
	f.launched = append(f.launched, path)
	return nil
}

func (f *fakeSinks) OpenURL(_ context.Context, url string) error {
	if f.fail != nil {
		return f.fail
	}
	f.opened = append(f.opened, url)
	return nil
}

func (f *fakeSinks) Read(context.Context) (string, error) { return "", nil }

func (f *fakeSinks) Write(_ context.Context, text string) error {
	if f.fail != nil {
		return f.fail
	}
	f.clipboard = append(f.clipboard, text)
	return nil
}

func (f *fakeSinks) Show(_ context.Context, title, message string) error {
	if f.fail != nil {
		return f.fail
	}
	f.notified = append(f.notified, title+": "+message)
	return nil
}

func newPerformer(sinks *fakeSinks, store *usage.MemoryStore) *action.Performer {
	return action.NewPerformer(sinks, sinks, sinks, store, logging.NewNopLogger())
}

func grants(caps ...capability.Capability) *capability.Set {
	return capability.NewSetFrom(caps)
}

func TestPerformTrustedOrigin(t *testing.T) {
	t.Parallel()

	sinks := &fakeSinks{}
	p := newPerformer(sinks, usage.NewMemoryStore())

	// Trusted origins need no grants for any intent.
	tests := []intent.Intent{
		intent.Launch{Path: "/usr/bin/code"},
		intent.OpenURL{URL: "https://example.com"},
		intent.ClipboardWrite{Text: "4"},
		intent.Notify{Title: "hi", Message: "there"},
	}
	for _, in := range tests {
		assert.NoError(t, p.Perform(context.Background(), in, action.TrustedOrigin("")))
	}

	assert.Equal(t, []string{"/usr/bin/code"}, sinks.launched)
	assert.Equal(t, []string{"https://example.com"}, sinks.opened)
	assert.Equal(t, []string{"4"}, sinks.clipboard)
	assert.Equal(t, []string{"hi: there"}, sinks.notified)
}

func TestPerformPluginPermissions(t *testing.T) {
	t.Parallel()

	t.Run("popup needs no grant", func(t *testing.T) {
		t.Parallel()

		sinks := &fakeSinks{}
		p := newPerformer(sinks, usage.NewMemoryStore())

		in := intent.Popup{Payload: json.RawMessage(`{"view":"demo"}`)}
		err := p.Perform(context.Background(), in, action.PluginOrigin(grants(), "demo-plugin"))
		assert.NoError(t, err)
	})

	t.Run("notify without grant is denied", func(t *testing.T) {
		t.Parallel()

		sinks := &fakeSinks{}
		p := newPerformer(sinks, usage.NewMemoryStore())

		in := intent.Notify{Title: "hi"}
		err := p.Perform(context.Background(), in, action.PluginOrigin(grants(), "demo-plugin"))
		assert.ErrorIs(t, err, action.ErrPermissionDenied)
		assert.Empty(t, sinks.notified, "denied intents must not reach the sink")
	})

	t.Run("notify with grant succeeds", func(t *testing.T) {
		t.Parallel()

		sinks := &fakeSinks{}
		p := newPerformer(sinks, usage.NewMemoryStore())

		in := intent.Notify{Title: "hi"}
		origin := action.PluginOrigin(grants(capability.CapNotification), "demo-plugin")
		require.NoError(t, p.Perform(context.Background(), in, origin))
		assert.Len(t, sinks.notified, 1)
	})

	t.Run("launch from plugin needs shell", func(t *testing.T) {
		t.Parallel()

		sinks := &fakeSinks{}
		p := newPerformer(sinks, usage.NewMemoryStore())

		in := intent.Launch{Path: "/bin/sh"}
		err := p.Perform(context.Background(), in, action.PluginOrigin(grants(), "demo-plugin"))
		assert.ErrorIs(t, err, action.ErrPermissionDenied)

		origin := action.PluginOrigin(grants(capability.CapShell), "demo-plugin")
		assert.NoError(t, p.Perform(context.Background(), in, origin))
	})

	t.Run("nil grant set denies everything privileged", func(t *testing.T) {
		t.Parallel()

		sinks := &fakeSinks{}
		p := newPerformer(sinks, usage.NewMemoryStore())

		err := p.Perform(context.Background(),
			intent.ClipboardWrite{Text: "x"}, action.PluginOrigin(nil, ""))
		assert.ErrorIs(t, err, action.ErrPermissionDenied)
	})
}

func TestPerformWrapsSinkFailures(t *testing.T) {
	t.Parallel()

	sinkErr := errors.New("browser not found")
	sinks := &fakeSinks{fail: sinkErr}
	p := newPerformer(sinks, usage.NewMemoryStore())

	err := p.Perform(context.Background(),
		intent.OpenURL{URL: "https://example.com"}, action.TrustedOrigin(""))

	require.Error(t, err)
	assert.True(t, action.IsExecutionError(err))
	assert.ErrorIs(t, err, sinkErr)
}

func TestPerformCreditsUsage(t *testing.T) {
	t.Parallel()

	sinks := &fakeSinks{}
	store := usage.NewMemoryStore()
	p := newPerformer(sinks, store)

	in := intent.Launch{Path: "/usr/bin/code"}
	require.NoError(t, p.Perform(context.Background(), in, action.TrustedOrigin("app/code")))
	require.NoError(t, p.Perform(context.Background(), in, action.TrustedOrigin("app/code")))

	counts, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), counts["app/code"])
}

func TestPerformNoUsageCreditOnFailure(t *testing.T) {
	t.Parallel()

	sinks := &fakeSinks{fail: errors.New("boom")}
	store := usage.NewMemoryStore()
	p := newPerformer(sinks, store)

	_ = p.Perform(context.Background(),
		intent.Launch{Path: "/x"}, action.TrustedOrigin("app/x"))

	counts, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestPerformNoneIsNoOp(t *testing.T) {
	t.Parallel()

	sinks := &fakeSinks{}
	p := newPerformer(sinks, usage.NewMemoryStore())

	assert.NoError(t, p.Perform(context.Background(), intent.None{}, action.PluginOrigin(nil, "")))
	assert.Empty(t, sinks.launched)
	assert.Empty(t, sinks.clipboard)
}

func TestPerformNilIntent(t *testing.T) {
	t.Parallel()

	p := newPerformer(&fakeSinks{}, usage.NewMemoryStore())
	err := p.Perform(context.Background(), nil, action.TrustedOrigin(""))
	assert.ErrorIs(t, err, intent.ErrMalformed)
}
