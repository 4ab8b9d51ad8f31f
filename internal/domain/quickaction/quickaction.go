// Package quickaction detects queries that resolve to an immediate answer
// instead of a provider fan-out: web-search shortcuts, inline arithmetic,
// color previews, and URLs. A detected quick action short-circuits dispatch
// and yields exactly one pinned candidate.
package quickaction

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"github.com/google/uuid"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
)

// SearchEngine is one web-search shortcut (e.g. "g:" for Google).
type SearchEngine struct {
	Prefix string
	Name   string
	// URL is the search endpoint; the encoded query is appended to it.
	URL string
}

// DefaultEngines returns the built-in web-search shortcuts.
func DefaultEngines() []SearchEngine {
	return []SearchEngine{
		{Prefix: "g:", Name: "Google", URL: "https://www.google.com/search?q="},
		{Prefix: "b:", Name: "Bing", URL: "https://www.bing.com/search?q="},
		{Prefix: "d:", Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q="},
		{Prefix: "yt:", Name: "YouTube", URL: "https://www.youtube.com/results?search_query="},
		{Prefix: "gh:", Name: "GitHub", URL: "https://github.com/search?q="},
	}
}

var (
	// arithmeticPattern admits only numbers, arithmetic operators, and
	// grouping; the expression is still evaluated in a VM with no bindings.
	arithmeticPattern = regexp.MustCompile(`^[0-9+\-*/%().\s]+$`)
	digitPattern      = regexp.MustCompile(`[0-9]`)
	operatorPattern   = regexp.MustCompile(`[+\-*/%]`)

	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

	// bareDomainPattern matches host names like "example.com/path" that are
	// URLs in spirit despite the missing scheme.
	bareDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*(\.[a-zA-Z0-9][a-zA-Z0-9-]*)+(/\S*)?$`)
)

// Detector recognizes quick-action queries. Detection order is fixed:
// web search, then arithmetic, then color, then URL. The zero value is not
// usable; construct with NewDetector.
type Detector struct {
	engines []SearchEngine
}

// NewDetector creates a detector with the default web-search engines.
func NewDetector() *Detector {
	return &Detector{engines: DefaultEngines()}
}

// WithEngines replaces the web-search shortcut table.
func (d *Detector) WithEngines(engines []SearchEngine) *Detector {
	d.engines = engines
	return d
}

// Detect returns the quick-action candidate for the query, if any.
func (d *Detector) Detect(query result.Query) (result.Candidate, bool) {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return result.Candidate{}, false
	}

	if c, ok := d.detectWebSearch(text); ok {
		return c, true
	}
	if c, ok := detectArithmetic(text); ok {
		return c, true
	}
	if c, ok := detectColor(text); ok {
		return c, true
	}
	if c, ok := detectURL(text); ok {
		return c, true
	}
	return result.Candidate{}, false
}

// detectWebSearch matches engine shortcuts like "g: rust tutorials".
func (d *Detector) detectWebSearch(text string) (result.Candidate, bool) {
	lower := strings.ToLower(text)
	for _, engine := range d.engines {
		if !strings.HasPrefix(lower, engine.Prefix) {
			continue
		}
		term := strings.TrimSpace(text[len(engine.Prefix):])
		if term == "" {
			return result.Candidate{}, false
		}
		target := engine.URL + encodeQuery(term)
		return result.Candidate{
			ID:       uuid.NewString(),
			Title:    fmt.Sprintf("Search %s for %q", engine.Name, term),
			Subtitle: target,
			Kind:     result.KindAction,
			RawScore: 1,
			SourceID: "quickaction",
			Intent:   intent.OpenURL{URL: target},
			Pinned:   true,
		}, true
	}
	return result.Candidate{}, false
}

// encodeQuery percent-encodes a search term, using %20 for spaces so the
// result is valid in any URL position.
func encodeQuery(term string) string {
	return strings.ReplaceAll(url.QueryEscape(term), "+", "%20")
}

// detectArithmetic evaluates inline expressions like "2 + 2".
func detectArithmetic(text string) (result.Candidate, bool) {
	if !arithmeticPattern.MatchString(text) ||
		!digitPattern.MatchString(text) ||
		!operatorPattern.MatchString(text) {
		return result.Candidate{}, false
	}

	value, ok := evalArithmetic(text)
	if !ok {
		return result.Candidate{}, false
	}
	formatted := strconv.FormatFloat(value, 'f', -1, 64)

	return result.Candidate{
		ID:       uuid.NewString(),
		Title:    formatted,
		Subtitle: fmt.Sprintf("%s = %s (press Enter to copy)", text, formatted),
		Kind:     result.KindAction,
		RawScore: 1,
		SourceID: "quickaction",
		Intent:   intent.ClipboardWrite{Text: formatted},
		Pinned:   true,
	}, true
}

// evalArithmetic evaluates a pre-screened expression in a bare VM. The
// character whitelist has already excluded identifiers, so nothing but
// arithmetic can execute.
func evalArithmetic(expr string) (float64, bool) {
	vm := goja.New()
	val, err := vm.RunString(expr)
	if err != nil {
		return 0, false
	}
	f := val.ToFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// detectColor previews hex colors like "#ff0000".
func detectColor(text string) (result.Candidate, bool) {
	if !hexColorPattern.MatchString(text) {
		return result.Candidate{}, false
	}

	c, err := colorful.Hex(expandHex(text))
	if err != nil {
		return result.Candidate{}, false
	}
	r, g, b := c.RGB255()
	rgb := fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)

	return result.Candidate{
		ID:       uuid.NewString(),
		Title:    strings.ToLower(text),
		Subtitle: rgb,
		Kind:     result.KindColor,
		RawScore: 1,
		SourceID: "quickaction",
		Intent:   intent.ClipboardWrite{Text: rgb},
		Pinned:   true,
	}, true
}

// expandHex widens #abc shorthand to #aabbcc.
func expandHex(hex string) string {
	if len(hex) != 4 {
		return hex
	}
	var sb strings.Builder
	sb.WriteByte('#')
	for _, ch := range hex[1:] {
		sb.WriteRune(ch)
		sb.WriteRune(ch)
	}
	return sb.String()
}

// detectURL matches explicit http(s) URLs and bare domains.
func detectURL(text string) (result.Candidate, bool) {
	target := ""
	switch {
	case strings.HasPrefix(text, "http://"), strings.HasPrefix(text, "https://"):
		u, err := url.Parse(text)
		if err != nil || u.Host == "" {
			return result.Candidate{}, false
		}
		target = text
	case bareDomainPattern.MatchString(text):
		target = "https://" + text
	default:
		return result.Candidate{}, false
	}

	return result.Candidate{
		ID:       uuid.NewString(),
		Title:    fmt.Sprintf("Open %s", target),
		Subtitle: "Open in browser",
		Kind:     result.KindURL,
		RawScore: 1,
		SourceID: "quickaction",
		Intent:   intent.OpenURL{URL: target},
		Pinned:   true,
	}, true
}
