// Package abbrev resolves user-defined abbreviations from a TOML file into
// search candidates. An abbreviation maps a short key to a URL, a path, or
// a snippet of text.
package abbrev

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/search"
)

// FileName is the abbreviations file expected in the config directory.
const FileName = "abbreviations.toml"

// Entry is one abbreviation definition. Exactly one of URL, Path, or Text
// should be set; the first non-empty one in that order wins.
type Entry struct {
	Title string `toml:"title"`
	URL   string `toml:"url"`
	Path  string `toml:"path"`
	Text  string `toml:"text"`
}

// file is the TOML document shape: a table of key to entry.
type file struct {
	Abbreviations map[string]Entry `toml:"abbreviations"`
}

// Provider matches query text against abbreviation keys.
type Provider struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty abbreviation provider. Use Load or Replace to
// populate it.
func New() *Provider {
	return &Provider{entries: make(map[string]Entry)}
}

// Load reads abbreviations from a TOML file. A missing file leaves the
// provider empty.
func Load(path string) (*Provider, error) {
	p := New()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading abbreviations: %w", err)
	}

	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing abbreviations: %w", err)
	}
	p.Replace(f.Abbreviations)
	return p, nil
}

// Replace swaps in a new abbreviation table.
func (p *Provider) Replace(entries map[string]Entry) {
	clone := make(map[string]Entry, len(entries))
	for k, v := range entries {
		clone[strings.ToLower(k)] = v
	}

	p.mu.Lock()
	p.entries = clone
	p.mu.Unlock()
}

// ID implements search.Provider.
func (p *Provider) ID() string { return "abbrev" }

// Search implements search.Provider. Keys match exactly or by prefix.
func (p *Provider) Search(_ context.Context, query result.Query) ([]result.Candidate, error) {
	q := strings.ToLower(strings.TrimSpace(query.Text))
	if q == "" {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	keys := make([]string, 0, len(p.entries))
	for k := range p.entries {
		if k == q || strings.HasPrefix(k, q) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	candidates := make([]result.Candidate, 0, len(keys))
	for _, k := range keys {
		e := p.entries[k]
		c, ok := candidate(k, e)
		if !ok {
			continue
		}
		if k == q {
			c.RawScore = 1
		} else {
			c.RawScore = 0.8
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// candidate builds the result for one abbreviation entry.
func candidate(key string, e Entry) (result.Candidate, bool) {
	title := e.Title
	var subtitle string
	var in intent.Intent

	switch {
	case e.URL != "":
		subtitle = e.URL
		in = intent.OpenURL{URL: e.URL}
	case e.Path != "":
		subtitle = e.Path
		in = intent.Launch{Path: e.Path}
	case e.Text != "":
		subtitle = "Copy to clipboard"
		in = intent.ClipboardWrite{Text: e.Text}
	default:
		return result.Candidate{}, false
	}

	if title == "" {
		title = key
	}
	return result.Candidate{
		ID:       "abbrev/" + key,
		Title:    title,
		Subtitle: subtitle,
		Kind:     result.KindAction,
		SourceID: "abbrev",
		Intent:   in,
	}, true
}

var _ search.Provider = (*Provider)(nil)
