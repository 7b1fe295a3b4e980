package scoring

import (
	"github.com/spigell/respondent-ranker/internal/fuzzy"
)

// MatchAggregator merges the matches of several queries against one dictionary.
type MatchAggregator interface {
	AggregateMatches(queries, choices []string) []fuzzy.Match
}

// Aggregator runs every query through an Extractor and keeps the best score per term.
type Aggregator struct {
	extractor fuzzy.Extractor
}

func NewAggregator(extractor fuzzy.Extractor) *Aggregator {
	return &Aggregator{extractor: extractor}
}

// AggregateMatches returns one match per matched term carrying the highest
// score any query reached for it. Terms appear in the order first seen.
func (a *Aggregator) AggregateMatches(queries, choices []string) []fuzzy.Match {
	best := make(map[string]float64)
	var order []string

	for _, query := range queries {
		for _, match := range a.extractor.Extract(query, choices) {
			score, seen := best[match.Term]
			if !seen {
				order = append(order, match.Term)
			}
			if !seen || score < match.Score {
				best[match.Term] = match.Score
			}
		}
	}

	result := make([]fuzzy.Match, 0, len(order))
	for _, term := range order {
		result = append(result, fuzzy.Match{Term: term, Score: best[term]})
	}
	return result
}

// ScoreFromMatches sums the match scores and divides by the number of desired
// choices. Nothing desired means no signal, which scores 0.
func ScoreFromMatches(matches []fuzzy.Match, totalChoices int) float64 {
	if totalChoices <= 0 {
		return 0
	}

	var sum float64
	for _, match := range matches {
		sum += match.Score
	}
	return sum / float64(totalChoices)
}
