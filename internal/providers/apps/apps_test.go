package apps_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glintlauncher/glint/internal/adapters/index"
	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/providers/apps"
	"github.com/glintlauncher/glint/internal/ports"
)

func TestSearchMapsEntries(t *testing.T) {
	t.Parallel()

	source := index.NewApps([]ports.AppEntry{
		{ID: "app/ff", Name: "Firefox", Path: "/usr/bin/firefox", Icon: "firefox.png"},
		{ID: "app/files", Name: "File Manager", Path: "/usr/bin/files"},
	})
	p := apps.New(source)

	got, err := p.Search(context.Background(), result.NewQuery("fire"))
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "app/ff", c.ID)
	assert.Equal(t, "Firefox", c.Title)
	assert.Equal(t, "/usr/bin/firefox", c.Subtitle)
	assert.Equal(t, result.KindApp, c.Kind)
	assert.Equal(t, "apps", c.SourceID)
	assert.Equal(t, "/usr/bin/firefox", c.Intent.(intent.Launch).Path)
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	p := apps.New(index.NewApps([]ports.AppEntry{{ID: "x", Name: "X", Path: "/x"}}))

	got, err := p.Search(context.Background(), result.NewQuery(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}
