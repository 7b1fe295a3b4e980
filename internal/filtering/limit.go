package filtering

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/scoring"
)

type limitFilter struct {
	disabled bool
	reason   string
	limit    int
}

// NewLimit creates a filter that keeps only the best N respondents. Zero means no limit.
func NewLimit() Filter {
	return &limitFilter{}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *limitFilter) IsEnabled() bool { return !f.disabled }

func (f *limitFilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg == nil {
		return nil
	}
	if cfg.Limit < 0 {
		return eris.Wrapf(apperr.ErrConfiguration, "limit must not be negative, got %d", cfg.Limit)
	}
	f.limit = cfg.Limit
	return nil
}

func (f *limitFilter) Apply(_ context.Context, deps Deps, r *scoring.Results) (*scoring.Results, Step, error) {
	initial := r.Len()
	if f.limit == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	removed := r.Truncate(f.limit)
	if len(removed) > 0 {
		deps.Logger.Debug("respondents over the limit",
			zap.Int("limit", f.limit),
			zap.Strings("excluded_respondents", removed),
		)
	}

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *limitFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"limit": strconv.Itoa(f.limit)},
	}
}
