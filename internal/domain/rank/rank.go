// Package rank assigns final scores to candidates and orders them. Ranking
// is a pure function of the candidate list, the query, the weights, and a
// usage snapshot; the same inputs always produce the same order.
package rank

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/glintlauncher/glint/internal/domain/result"
)

// TopMatchThreshold is the final score above which a candidate is flagged
// for UI emphasis.
const TopMatchThreshold = 0.9

// Weights controls the blend of ranking signals. The three components are
// expected to sum to 1, but ranking order is insensitive to the exact sum.
type Weights struct {
	Fuzzy     float64 `yaml:"fuzzy"`
	Frequency float64 `yaml:"frequency"`
	Type      float64 `yaml:"type"`
}

// DefaultWeights returns the standard signal blend.
func DefaultWeights() Weights {
	return Weights{Fuzzy: 0.5, Frequency: 0.3, Type: 0.2}
}

// typePriority biases result kinds against each other. Unlisted kinds rank
// at the bottom.
var typePriority = map[result.Kind]float64{
	result.KindApp:       1.0,
	result.KindColor:     0.95,
	result.KindClipboard: 0.9,
	result.KindBookmark:  0.8,
	result.KindHistory:   0.7,
	result.KindFile:      0.6,
	result.KindAction:    0.55,
	result.KindPlugin:    0.5,
	result.KindURL:       0.5,
}

// Rank scores and orders candidates. Pinned candidates bypass scoring and
// keep their emission order at the front; scored candidates sort by final
// score descending, with emission order breaking ties. The input slice is
// not mutated.
func Rank(candidates []result.Candidate, query result.Query, w Weights, usage map[string]uint64) []result.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	pinned := make([]result.Candidate, 0)
	scored := make([]result.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c.Pinned {
			c.Score = 1
			c.TopMatch = true
			pinned = append(pinned, c)
			continue
		}

		text := TextMatchScore(query.Text, c.Title, c.Subtitle)
		freq := normalizedFrequency(usage[c.ID])
		prio := typePriority[c.Kind]

		c.Score = w.Fuzzy*text + w.Frequency*freq + w.Type*prio
		c.TopMatch = c.Score >= TopMatchThreshold
		scored = append(scored, c)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return append(pinned, scored...)
}

// TextMatchScore rates how well a query matches a candidate's title and
// subtitle. Title matches outrank subtitle matches at every rung, exact
// beats prefix beats substring, and multi-character queries also match
// title initialisms ("vsc" for "Visual Studio Code").
func TextMatchScore(query, title, subtitle string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	t := strings.ToLower(title)
	s := strings.ToLower(subtitle)

	best := 0.0
	switch {
	case t == q:
		best = 1.0
	case strings.HasPrefix(t, q):
		best = 0.8
	case strings.Contains(t, q):
		best = 0.5
	}

	if s != "" {
		switch {
		case s == q:
			best = math.Max(best, 0.9)
		case strings.HasPrefix(s, q):
			best = math.Max(best, 0.7)
		case strings.Contains(s, q):
			best = math.Max(best, 0.4)
		}
	}

	if len(q) >= 2 && isAllLetters(q) {
		initials := initialism(t)
		switch {
		case initials == q:
			best = math.Max(best, 0.85)
		case strings.HasPrefix(initials, q):
			best = math.Max(best, 0.65)
		}
	}

	return best
}

// initialism returns the first letter of each word of s.
func initialism(s string) string {
	var sb strings.Builder
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	}) {
		for _, r := range word {
			sb.WriteRune(unicode.ToLower(r))
			break
		}
	}
	return sb.String()
}

func isAllLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// normalizedFrequency maps a launch count to [0,1] on a log scale, so early
// launches move the needle and heavy use saturates instead of dominating.
// Saturation at a thousand uses keeps the top-match threshold reachable for
// well-worn entries.
func normalizedFrequency(count uint64) float64 {
	if count == 0 {
		return 0
	}
	v := math.Log10(float64(count)+1) / 3
	if v > 1 {
		return 1
	}
	return v
}
