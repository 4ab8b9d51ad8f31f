package plugin_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glintlauncher/glint/internal/domain/capability"
	"github.com/glintlauncher/glint/internal/domain/plugin"
)

func newTestPlugin(id string) *plugin.Plugin {
	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			ID:          id,
			Name:        "Test " + id,
			Version:     "1.0.0",
			Permissions: []string{"notification", "clipboard:write"},
			Entry:       "index.js",
		},
		Source: "function onSearch(q) { return []; }",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("stores a copy in the loaded state", func(t *testing.T) {
		t.Parallel()

		r := plugin.NewRegistry()
		p := newTestPlugin("demo")
		require.NoError(t, r.Register(p))

		// Mutating the original must not leak into the registry.
		p.Manifest.Name = "mutated"

		got, ok := r.Get("demo")
		require.True(t, ok)
		assert.Equal(t, "Test demo", got.Manifest.Name)
		assert.Equal(t, plugin.StatusLoaded, got.Status)
		assert.NotNil(t, got.Granted)
	})

	t.Run("rejects nil and empty IDs", func(t *testing.T) {
		t.Parallel()

		r := plugin.NewRegistry()
		assert.ErrorIs(t, r.Register(nil), plugin.ErrNilPlugin)
		assert.ErrorIs(t, r.Register(&plugin.Plugin{}), plugin.ErrEmptyPluginID)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()

		r := plugin.NewRegistry()
		require.NoError(t, r.Register(newTestPlugin("demo")))
		err := r.Register(newTestPlugin("demo"))
		assert.True(t, plugin.IsPluginExists(err))
	})
}

func TestEnabledExcludesOtherStates(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	for _, id := range []string{"aaa", "bbb", "ccc"} {
		require.NoError(t, r.Register(newTestPlugin(id)))
	}
	require.NoError(t, r.Enable("aaa"))
	require.NoError(t, r.Enable("bbb"))
	require.NoError(t, r.Disable("bbb"))

	enabled := r.Enabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, "aaa", enabled[0].ID())
}

func TestGrantRequiresDeclaration(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	require.NoError(t, r.Register(newTestPlugin("demo")))

	require.NoError(t, r.Grant("demo", capability.CapNotification))
	err := r.Grant("demo", capability.CapShell)
	assert.ErrorIs(t, err, capability.ErrInvalid)

	got, _ := r.Get("demo")
	assert.True(t, got.Granted.Has(capability.CapNotification))
	assert.False(t, got.Granted.Has(capability.CapShell))
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	require.NoError(t, r.Register(newTestPlugin("demo")))
	require.NoError(t, r.GrantAll("demo"))
	require.NoError(t, r.Revoke("demo", capability.CapNotification))

	got, _ := r.Get("demo")
	assert.False(t, got.Granted.Has(capability.CapNotification))
	assert.True(t, got.Granted.Has(capability.CapClipboardWrite))
}

func TestRecordFailureQuarantinesAtThreshold(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	require.NoError(t, r.Register(newTestPlugin("flaky")))
	require.NoError(t, r.Enable("flaky"))

	assert.False(t, r.RecordFailure("flaky"))
	assert.False(t, r.RecordFailure("flaky"))

	// Third consecutive failure crosses the threshold, exactly once.
	assert.True(t, r.RecordFailure("flaky"))
	assert.False(t, r.RecordFailure("flaky"))

	got, _ := r.Get("flaky")
	assert.Equal(t, plugin.StatusCrashed, got.Status)
	assert.Empty(t, r.Enabled())
}

func TestRecordSuccessResetsStreak(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	require.NoError(t, r.Register(newTestPlugin("flaky")))
	require.NoError(t, r.Enable("flaky"))

	r.RecordFailure("flaky")
	r.RecordFailure("flaky")
	r.RecordSuccess("flaky", 12*time.Millisecond)
	r.RecordFailure("flaky")
	r.RecordFailure("flaky")

	got, _ := r.Get("flaky")
	assert.Equal(t, plugin.StatusEnabled, got.Status)
	assert.Equal(t, 2, got.ConsecutiveFailures)
}

func TestEnableLiftsQuarantine(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry(plugin.WithFailureThreshold(1))
	require.NoError(t, r.Register(newTestPlugin("flaky")))
	require.NoError(t, r.Enable("flaky"))

	require.True(t, r.RecordFailure("flaky"))
	require.NoError(t, r.Enable("flaky"))

	got, _ := r.Get("flaky")
	assert.Equal(t, plugin.StatusEnabled, got.Status)
	assert.Zero(t, got.ConsecutiveFailures)
}

func TestUnknownPluginOperations(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	assert.ErrorIs(t, r.Enable("ghost"), plugin.ErrNotRegistered)
	assert.ErrorIs(t, r.Disable("ghost"), plugin.ErrNotRegistered)
	assert.ErrorIs(t, r.Grant("ghost", capability.CapShell), plugin.ErrNotRegistered)
	assert.False(t, r.RecordFailure("ghost"))
	assert.False(t, r.Remove("ghost"))

	_, ok := r.Get("ghost")
	assert.False(t, ok)
}

func TestListIsSorted(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	for _, id := range []string{"zzz", "aaa", "mmm"} {
		require.NoError(t, r.Register(newTestPlugin(id)))
	}

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "aaa", list[0].ID())
	assert.Equal(t, "mmm", list[1].ID())
	assert.Equal(t, "zzz", list[2].ID())
}
