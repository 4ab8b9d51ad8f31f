// Package files exposes indexed files as search candidates.
package files

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/search"
	"github.com/glintlauncher/glint/internal/ports"
)

// defaultLimit caps how many file matches one query returns. File indexes
// are large; without a cap a short query floods the merge.
const defaultLimit = 20

// Provider turns a file index into a search provider.
type Provider struct {
	index ports.FileIndex
	limit int
}

// New creates a file provider over the given index.
func New(index ports.FileIndex) *Provider {
	return &Provider{index: index, limit: defaultLimit}
}

// WithLimit overrides the per-query match cap.
func (p *Provider) WithLimit(n int) *Provider {
	if n > 0 {
		p.limit = n
	}
	return p
}

// ID implements search.Provider.
func (p *Provider) ID() string { return "files" }

// Search implements search.Provider.
func (p *Provider) Search(ctx context.Context, query result.Query) ([]result.Candidate, error) {
	entries, err := p.index.Search(ctx, query.Text, p.limit)
	if err != nil {
		return nil, fmt.Errorf("searching files: %w", err)
	}

	candidates := make([]result.Candidate, 0, len(entries))
	for _, e := range entries {
		title := e.Filename
		if title == "" {
			title = filepath.Base(e.Path)
		}
		candidates = append(candidates, result.Candidate{
			ID:       e.ID,
			Title:    title,
			Subtitle: e.Path,
			Kind:     result.KindFile,
			SourceID: p.ID(),
			Intent:   intent.Launch{Path: e.Path},
		})
	}
	return candidates, nil
}

var _ search.Provider = (*Provider)(nil)
