// Package scoring ranks respondents against a project by combining distance to
// the nearest target city with fuzzy industry and job title matches.
package scoring

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/fuzzy"
	"github.com/spigell/respondent-ranker/internal/geo"
)

// DefaultDistanceCutoff is the radius, in km, beyond which respondents are not considered.
const DefaultDistanceCutoff = 100

// Config holds the constants a run scores with.
type Config struct {
	EarthRadius      float64 `mapstructure:"earth-radius"`
	DistanceCutoff   float64 `mapstructure:"distance-cutoff"`
	FuzzyMatchCutoff float64 `mapstructure:"fuzzy-match-cutoff"`
	// Workers bounds parallel scoring; 0 means one per CPU.
	Workers int    `mapstructure:"workers"`
	Scorer  string `mapstructure:"scorer"`
}

// DefaultConfig returns the constants used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		EarthRadius:      geo.EarthRadiusKM,
		DistanceCutoff:   DefaultDistanceCutoff,
		FuzzyMatchCutoff: fuzzy.DefaultCutoff,
		Scorer:           fuzzy.ScorerRatio,
	}
}

// ValidateConfig checks that a Config can be scored with and reports every problem at once.
func ValidateConfig(c Config) error {
	var errs []string

	if c.EarthRadius <= 0 {
		errs = append(errs, "earth-radius must be > 0")
	}
	if c.DistanceCutoff <= 0 {
		errs = append(errs, "distance-cutoff must be > 0")
	}
	if c.FuzzyMatchCutoff < 0 || c.FuzzyMatchCutoff > 100 {
		errs = append(errs, "fuzzy-match-cutoff must be between 0 and 100")
	}
	if c.Workers < 0 {
		errs = append(errs, "workers must be >= 0")
	}
	if _, err := fuzzy.ScorerByName(c.Scorer); err != nil {
		errs = append(errs, fmt.Sprintf("scorer %q is not one of %s, %s, %s",
			c.Scorer, fuzzy.ScorerRatio, fuzzy.ScorerTokenSortRatio, fuzzy.ScorerTokenSetRatio))
	}

	if len(errs) > 0 {
		return eris.Wrapf(apperr.ErrConfiguration, "scoring config: %s", strings.Join(errs, "; "))
	}
	return nil
}
