package scoring

import (
	"context"
	"runtime"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/fuzzy"
	"github.com/spigell/respondent-ranker/internal/geo"
	"github.com/spigell/respondent-ranker/internal/project"
	"github.com/spigell/respondent-ranker/internal/respondent"
	"github.com/spigell/respondent-ranker/internal/utils"
)

const maxLogLength = 80

// Pipeline scores every respondent, drops those without a positive score and
// sorts the rest best first.
type Pipeline struct {
	scorer  RespondentScorer
	workers int
	logger  *zap.Logger
}

// NewPipeline creates a Pipeline. workers <= 0 means one per CPU.
func NewPipeline(scorer RespondentScorer, workers int, logger *zap.Logger) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		scorer:  scorer,
		workers: workers,
		logger:  logger,
	}
}

// New wires the geometry, fuzzy matcher, aggregator and scorer described by cfg into a Pipeline.
func New(cfg Config, logger *zap.Logger) (*Pipeline, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	fuzzyScorer, err := fuzzy.ScorerByName(cfg.Scorer)
	if err != nil {
		return nil, eris.Wrap(apperr.ErrConfiguration, err.Error())
	}

	matcher := fuzzy.NewMatcher(cfg.FuzzyMatchCutoff, fuzzyScorer)
	scorer := NewScorer(geo.NewSphere(cfg.EarthRadius), matcher, NewAggregator(matcher), cfg.DistanceCutoff)

	return NewPipeline(scorer, cfg.Workers, logger), nil
}

// Rank scores respondents against criteria. Ties keep input order. Any
// scoring error aborts the whole run and no results are returned.
func (p *Pipeline) Rank(ctx context.Context, respondents []*respondent.Respondent, criteria *project.Criteria) (*Results, error) {
	if criteria == nil {
		return nil, eris.Wrap(apperr.ErrConfiguration, "criteria are required")
	}
	if len(criteria.Cities) == 0 {
		return nil, eris.Wrap(apperr.ErrConfiguration, "project has no cities")
	}

	scored := make([]*RankedResult, len(respondents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, r := range respondents {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			breakdown, err := p.scorer.Score(r, criteria)
			if err != nil {
				return eris.Wrapf(err, "score respondent %d", i)
			}

			p.logger.Debug("respondent scored",
				zap.Int("index", i),
				zap.String("first_name", r.FirstName),
				zap.String("job_title", utils.TruncateForLog(r.JobTitle, maxLogLength)),
				zap.Float64("shortest_distance_km", breakdown.DistanceScore.ShortestDistance),
				zap.Float64("distance_score", breakdown.DistanceScore.Score),
				zap.Float64("industry_score", breakdown.IndustryScore),
				zap.Float64("job_title_score", breakdown.JobTitleScore),
				zap.Float64("total_score", breakdown.TotalScore),
			)

			scored[i] = &RankedResult{
				FirstName:  r.FirstName,
				Distance:   breakdown.DistanceScore.ShortestDistance,
				TotalScore: breakdown.TotalScore,
				City:       r.City,
				Breakdown:  breakdown,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]*RankedResult, 0, len(scored))
	for _, result := range scored {
		if result.TotalScore > 0 {
			ranked = append(ranked, result)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	p.logger.Info("ranking completed",
		zap.Int("respondents", len(respondents)),
		zap.Int("ranked", len(ranked)),
		zap.Int("dropped", len(respondents)-len(ranked)),
		zap.Int("workers", p.workers),
	)

	return &Results{Items: ranked}, nil
}
