package browser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glintlauncher/glint/internal/adapters/index"
	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/providers/browser"
	"github.com/glintlauncher/glint/internal/ports"
)

func TestSearchSplitsKinds(t *testing.T) {
	t.Parallel()

	idx := index.NewBrowser([]ports.BrowserEntry{
		{ID: "b1", Title: "Go Documentation", URL: "https://go.dev/doc", EntryType: ports.BrowserEntryBookmark},
		{ID: "h1", Title: "Go Playground", URL: "https://go.dev/play", EntryType: ports.BrowserEntryHistory},
	})
	p := browser.New(idx)

	got, err := p.Search(context.Background(), result.NewQuery("go"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, result.KindBookmark, got[0].Kind)
	assert.Equal(t, result.KindHistory, got[1].Kind)
	assert.Equal(t, "https://go.dev/doc", got[0].Intent.(intent.OpenURL).URL)
}

func TestSearchFallsBackToURLTitle(t *testing.T) {
	t.Parallel()

	idx := index.NewBrowser([]ports.BrowserEntry{
		{ID: "h2", URL: "https://untitled.example.com", EntryType: ports.BrowserEntryHistory},
	})
	p := browser.New(idx)

	got, err := p.Search(context.Background(), result.NewQuery("untitled"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://untitled.example.com", got[0].Title)
}
