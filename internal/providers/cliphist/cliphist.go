// Package cliphist exposes clipboard history as a trigger-gated search
// provider. Clipboard contents are sensitive, so the provider only
// participates when the user explicitly asks with a trigger prefix.
package cliphist

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/search"
	"github.com/glintlauncher/glint/internal/ports"
)

const (
	defaultLimit = 10

	// maxTitleLength truncates long clipboard entries for display.
	maxTitleLength = 60
)

// Triggers returns the prefixes that activate clipboard search.
var triggers = []string{"cb:", "clip:"}

// Provider turns clipboard history into a trigger-gated search provider.
type Provider struct {
	history ports.ClipboardHistory
	limit   int
}

// New creates a clipboard history provider.
func New(history ports.ClipboardHistory) *Provider {
	return &Provider{history: history, limit: defaultLimit}
}

// ID implements search.Provider.
func (p *Provider) ID() string { return "cliphist" }

// Triggers implements search.TriggerProvider.
func (p *Provider) Triggers() []string {
	return append([]string(nil), triggers...)
}

// Search implements search.Provider. Queries without a trigger prefix
// return nothing; the prefix is stripped before matching.
func (p *Provider) Search(ctx context.Context, query result.Query) ([]result.Candidate, error) {
	text, ok := stripTrigger(query.Text)
	if !ok {
		return nil, nil
	}

	entries, err := p.history.Search(ctx, text, p.limit)
	if err != nil {
		return nil, fmt.Errorf("searching clipboard history: %w", err)
	}

	candidates := make([]result.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, result.Candidate{
			ID:       e.ID,
			Title:    displayTitle(e),
			Subtitle: e.Timestamp.Format("Jan 2 15:04"),
			Kind:     result.KindClipboard,
			SourceID: p.ID(),
			Intent:   intent.ClipboardWrite{Text: e.Content},
		})
	}
	return candidates, nil
}

func stripTrigger(text string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, t := range triggers {
		if strings.HasPrefix(lower, t) {
			return strings.TrimSpace(strings.TrimSpace(text)[len(t):]), true
		}
	}
	return "", false
}

// displayTitle renders a clipboard entry for the result list. Sensitive
// entries are masked; long entries are flattened and truncated.
func displayTitle(e ports.ClipboardEntry) string {
	if e.Sensitive {
		return "•••• (sensitive)"
	}

	title := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, e.Content)
	title = strings.TrimSpace(title)

	// Truncate on runes; clipboard content is arbitrary text and a byte
	// slice could split a multi-byte character.
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength]) + "…"
	}
	return title
}

var _ search.TriggerProvider = (*Provider)(nil)
