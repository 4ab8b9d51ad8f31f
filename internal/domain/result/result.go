// Package result defines the value types that flow through the search
// pipeline: queries and candidate results. Both are owned by the dispatch
// call that created them and are never shared across concurrent dispatches.
package result

import (
	"strings"
	"time"

	"github.com/glintlauncher/glint/internal/domain/intent"
)

// Kind classifies where a candidate came from and what it represents.
type Kind string

// Candidate kinds.
const (
	KindApp       Kind = "app"
	KindFile      Kind = "file"
	KindClipboard Kind = "clipboard"
	KindBookmark  Kind = "bookmark"
	KindHistory   Kind = "history"
	KindPlugin    Kind = "plugin"
	KindAction    Kind = "action"
	KindURL       Kind = "url"
	KindColor     Kind = "color"
)

// Query is an immutable search request. A newer Query supersedes any
// in-flight one; only the most recent Query's results may be delivered.
type Query struct {
	Text     string
	IssuedAt time.Time
}

// NewQuery creates a query issued now.
func NewQuery(text string) Query {
	return Query{Text: text, IssuedAt: time.Now()}
}

// IsEmpty reports whether the query is empty or whitespace-only.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Candidate is one unranked result produced by exactly one provider.
// It is immutable once emitted; the ranking engine returns annotated
// copies rather than mutating shared state.
type Candidate struct {
	ID       string
	Title    string
	Subtitle string
	Icon     string
	Kind     Kind

	// RawScore is the provider's own relevance estimate in [0,1].
	RawScore float64

	// SourceID identifies the emitting provider (for plugins, the plugin ID).
	SourceID string

	// Intent describes what selecting this candidate would do.
	Intent intent.Intent

	// Pinned candidates (quick actions, web searches) bypass scoring and
	// are always placed ahead of scored results.
	Pinned bool

	// Score is the final weighted score assigned by the ranking engine.
	Score float64

	// TopMatch flags a candidate scoring high enough for UI emphasis.
	TopMatch bool
}
