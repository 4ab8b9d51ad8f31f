// Package apps exposes installed applications as search candidates.
package apps

import (
	"context"
	"fmt"

	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/search"
	"github.com/glintlauncher/glint/internal/ports"
)

// Provider turns an application index into a search provider.
type Provider struct {
	source ports.AppSource
}

// New creates an application provider over the given source.
func New(source ports.AppSource) *Provider {
	return &Provider{source: source}
}

// ID implements search.Provider.
func (p *Provider) ID() string { return "apps" }

// Search implements search.Provider.
func (p *Provider) Search(ctx context.Context, query result.Query) ([]result.Candidate, error) {
	entries, err := p.source.Search(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("searching applications: %w", err)
	}

	candidates := make([]result.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, result.Candidate{
			ID:       e.ID,
			Title:    e.Name,
			Subtitle: e.Path,
			Icon:     e.Icon,
			Kind:     result.KindApp,
			SourceID: p.ID(),
			Intent:   intent.Launch{Path: e.Path},
		})
	}
	return candidates, nil
}

var _ search.Provider = (*Provider)(nil)
