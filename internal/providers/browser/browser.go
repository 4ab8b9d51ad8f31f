// Package browser exposes browser bookmarks and history as search
// candidates.
package browser

import (
	"context"
	"fmt"

	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/search"
	"github.com/glintlauncher/glint/internal/ports"
)

const defaultLimit = 15

// Provider turns a browser data index into a search provider.
type Provider struct {
	index ports.BrowserIndex
	limit int
}

// New creates a browser provider over the given index.
func New(index ports.BrowserIndex) *Provider {
	return &Provider{index: index, limit: defaultLimit}
}

// ID implements search.Provider.
func (p *Provider) ID() string { return "browser" }

// Search implements search.Provider.
func (p *Provider) Search(ctx context.Context, query result.Query) ([]result.Candidate, error) {
	entries, err := p.index.Search(ctx, query.Text, p.limit)
	if err != nil {
		return nil, fmt.Errorf("searching browser data: %w", err)
	}

	candidates := make([]result.Candidate, 0, len(entries))
	for _, e := range entries {
		kind := result.KindHistory
		if e.EntryType == ports.BrowserEntryBookmark {
			kind = result.KindBookmark
		}
		title := e.Title
		if title == "" {
			title = e.URL
		}
		candidates = append(candidates, result.Candidate{
			ID:       e.ID,
			Title:    title,
			Subtitle: e.URL,
			Icon:     e.Favicon,
			Kind:     kind,
			SourceID: p.ID(),
			Intent:   intent.OpenURL{URL: e.URL},
		})
	}
	return candidates, nil
}

var _ search.Provider = (*Provider)(nil)
