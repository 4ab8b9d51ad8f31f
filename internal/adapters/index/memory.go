// Package index provides in-memory implementations of the data-source
// ports. They back tests and small installations; larger installations
// can swap in adapters over native indexes without touching the pipeline.
package index

import (
	"context"
	"strings"
	"sync"

	"github.com/glintlauncher/glint/internal/ports"
)

// Apps is an in-memory application index.
type Apps struct {
	mu      sync.RWMutex
	entries []ports.AppEntry
}

// NewApps creates an application index over the given entries.
func NewApps(entries []ports.AppEntry) *Apps {
	return &Apps{entries: append([]ports.AppEntry(nil), entries...)}
}

// Replace swaps in a new entry list.
func (a *Apps) Replace(entries []ports.AppEntry) {
	a.mu.Lock()
	a.entries = append([]ports.AppEntry(nil), entries...)
	a.mu.Unlock()
}

// Search implements ports.AppSource with case-insensitive substring
// matching on the application name.
func (a *Apps) Search(_ context.Context, text string) ([]ports.AppEntry, error) {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return nil, nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var matched []ports.AppEntry
	for _, e := range a.entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Files is an in-memory file index.
type Files struct {
	mu      sync.RWMutex
	entries []ports.FileEntry
}

// NewFiles creates a file index over the given entries.
func NewFiles(entries []ports.FileEntry) *Files {
	return &Files{entries: append([]ports.FileEntry(nil), entries...)}
}

// Search implements ports.FileIndex with case-insensitive substring
// matching on the file name.
func (f *Files) Search(_ context.Context, text string, limit int) ([]ports.FileEntry, error) {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return nil, nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var matched []ports.FileEntry
	for _, e := range f.entries {
		if strings.Contains(strings.ToLower(e.Filename), q) {
			matched = append(matched, e)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// Browser is an in-memory browser data index.
type Browser struct {
	mu      sync.RWMutex
	entries []ports.BrowserEntry
}

// NewBrowser creates a browser index over the given entries.
func NewBrowser(entries []ports.BrowserEntry) *Browser {
	return &Browser{entries: append([]ports.BrowserEntry(nil), entries...)}
}

// Search implements ports.BrowserIndex, matching title and URL.
func (b *Browser) Search(_ context.Context, text string, limit int) ([]ports.BrowserEntry, error) {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return nil, nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var matched []ports.BrowserEntry
	for _, e := range b.entries {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.URL), q) {
			matched = append(matched, e)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// Clips is an in-memory clipboard history.
type Clips struct {
	mu      sync.RWMutex
	entries []ports.ClipboardEntry
}

// NewClips creates a clipboard history over the given entries.
func NewClips(entries []ports.ClipboardEntry) *Clips {
	return &Clips{entries: append([]ports.ClipboardEntry(nil), entries...)}
}

// Add records a new clipboard entry at the front of the history.
func (c *Clips) Add(entry ports.ClipboardEntry) {
	c.mu.Lock()
	c.entries = append([]ports.ClipboardEntry{entry}, c.entries...)
	c.mu.Unlock()
}

// Search implements ports.ClipboardHistory. An empty query after the
// trigger lists the most recent entries.
func (c *Clips) Search(_ context.Context, text string, limit int) ([]ports.ClipboardEntry, error) {
	q := strings.ToLower(strings.TrimSpace(text))

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matched []ports.ClipboardEntry
	for _, e := range c.entries {
		if q == "" || strings.Contains(strings.ToLower(e.Content), q) {
			matched = append(matched, e)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

var (
	_ ports.AppSource        = (*Apps)(nil)
	_ ports.FileIndex        = (*Files)(nil)
	_ ports.BrowserIndex     = (*Browser)(nil)
	_ ports.ClipboardHistory = (*Clips)(nil)
)
