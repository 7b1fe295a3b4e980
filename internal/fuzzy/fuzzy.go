// Package fuzzy finds dictionary entries that resemble a query string.
package fuzzy

// DefaultCutoff is the similarity, on the 0-100 scale, a choice must exceed to match.
const DefaultCutoff = 50

// Match is a dictionary entry that resembled the query, with a score in (0, 1].
type Match struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Extractor returns the choices that match query.
type Extractor interface {
	Extract(query string, choices []string) []Match
}

// Matcher rates every choice with a Scorer and keeps those above the cutoff.
type Matcher struct {
	cutoff float64
	scorer Scorer
}

// NewMatcher creates a Matcher. A nil scorer selects Ratio.
func NewMatcher(cutoff float64, scorer Scorer) *Matcher {
	if scorer == nil {
		scorer = Ratio
	}

	return &Matcher{
		cutoff: cutoff,
		scorer: scorer,
	}
}

// Cutoff returns the configured cutoff on the 0-100 scale.
func (m *Matcher) Cutoff() float64 {
	return m.cutoff
}

// Extract scores query against every choice and returns the choices whose
// similarity is strictly greater than the cutoff. Scores are divided by 100.
// Callers must not rely on the order of the result.
func (m *Matcher) Extract(query string, choices []string) []Match {
	matches := make([]Match, 0, len(choices))
	for _, choice := range choices {
		similarity := m.scorer(query, choice)
		if float64(similarity) <= m.cutoff {
			continue
		}

		matches = append(matches, Match{
			Term:  choice,
			Score: float64(similarity) / 100,
		})
	}

	return matches
}
