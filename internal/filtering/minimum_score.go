package filtering

import (
	"context"
	"fmt"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/scoring"
)

type minimumScoreFilter struct {
	disabled bool
	reason   string
	minimum  float64
}

// NewMinimumScore creates a filter that removes respondents scoring below the configured minimum.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinimumScore < 0 || cfg.MinimumScore > 1 {
		return eris.Wrapf(apperr.ErrConfiguration, "minimum score must be within [0, 1], got %v", cfg.MinimumScore)
	}
	f.minimum = cfg.MinimumScore
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, r *scoring.Results) (*scoring.Results, Step, error) {
	initial := r.Len()
	if f.minimum == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	var removed []string
	r.Items = slices.DeleteFunc(r.Items, func(item *scoring.RankedResult) bool {
		if item.TotalScore < f.minimum {
			removed = append(removed, item.FirstName)
			return true
		}
		return false
	})

	if len(removed) > 0 {
		deps.Logger.Info("excluding respondents below minimum score",
			zap.Float64("minimum_score", f.minimum),
			zap.Strings("excluded_respondents", removed),
			zap.Int("respondents_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	details := map[string]string{
		"minimum_score": fmt.Sprintf("%.2f", f.minimum),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
