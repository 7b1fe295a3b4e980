package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
)

// Scorer names accepted by ScorerByName.
const (
	ScorerRatio          = "ratio"
	ScorerTokenSortRatio = "token_sort_ratio"
	ScorerTokenSetRatio  = "token_set_ratio"
)

// Scorer rates the similarity of two strings from 0 to 100.
type Scorer func(a, b string) int

// Substitution costs two so that a changed character weighs the same as a
// deletion plus an insertion.
var indelParams = levenshtein.NewParams().SubCost(2)

// ScorerByName returns the scorer registered under name. An empty name selects Ratio.
func ScorerByName(name string) (Scorer, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "", ScorerRatio:
		return Ratio, nil
	case ScorerTokenSortRatio:
		return TokenSortRatio, nil
	case ScorerTokenSetRatio:
		return TokenSetRatio, nil
	default:
		return nil, eris.Errorf("fuzzy: unknown scorer %q", name)
	}
}

// Ratio compares the processed strings as a whole.
func Ratio(a, b string) int {
	return ratio(Process(a), Process(b))
}

// TokenSortRatio compares the processed strings after sorting their tokens,
// so word order does not matter.
func TokenSortRatio(a, b string) int {
	return ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared tokens of both strings against each side's
// shared-plus-remaining tokens and keeps the best of the three ratios.
func TokenSetRatio(a, b string) int {
	a, b = Process(a), Process(b)
	if a == "" || b == "" {
		return 0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	var sect, onlyA, onlyB []string
	for token := range setA {
		if _, ok := setB[token]; ok {
			sect = append(sect, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range setB {
		if _, ok := setA[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(sect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sorted := strings.Join(sect, " ")
	combinedA := strings.TrimSpace(sorted + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sorted + " " + strings.Join(onlyB, " "))

	return max(ratio(sorted, combinedA), ratio(sorted, combinedB), ratio(combinedA, combinedB))
}

// ratio expects already processed input.
func ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	lensum := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	dist := levenshtein.Distance(a, b, indelParams)

	return int(math.Round(100 * float64(lensum-dist) / float64(lensum)))
}

func sortedTokens(s string) string {
	tokens := strings.Fields(Process(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(s) {
		set[token] = struct{}{}
	}
	return set
}
