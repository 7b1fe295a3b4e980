package scoring

import (
	"github.com/rotisserie/eris"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/fuzzy"
	"github.com/spigell/respondent-ranker/internal/geo"
	"github.com/spigell/respondent-ranker/internal/project"
	"github.com/spigell/respondent-ranker/internal/respondent"
)

// RespondentScorer produces the score breakdown of one respondent.
type RespondentScorer interface {
	Score(r *respondent.Respondent, criteria *project.Criteria) (ScoreBreakdown, error)
}

// Scorer scores a respondent by distance, industry and job title.
type Scorer struct {
	measurer       geo.Measurer
	extractor      fuzzy.Extractor
	aggregator     MatchAggregator
	distanceCutoff float64
}

// NewScorer creates a Scorer. distanceCutoff is in the unit the measurer returns.
func NewScorer(measurer geo.Measurer, extractor fuzzy.Extractor, aggregator MatchAggregator, distanceCutoff float64) *Scorer {
	return &Scorer{
		measurer:       measurer,
		extractor:      extractor,
		aggregator:     aggregator,
		distanceCutoff: distanceCutoff,
	}
}

// Score assembles the distance, industry, job title and total scores.
func (s *Scorer) Score(r *respondent.Respondent, criteria *project.Criteria) (ScoreBreakdown, error) {
	if r == nil {
		return ScoreBreakdown{}, eris.Wrap(apperr.ErrMalformedInput, "respondent is nil")
	}
	if criteria == nil {
		return ScoreBreakdown{}, eris.Wrap(apperr.ErrConfiguration, "criteria are required")
	}

	distance, err := s.DistanceScore(r.Point(), criteria.Cities)
	if err != nil {
		return ScoreBreakdown{}, err
	}

	industry := s.IndustryScore(r.Industries, criteria.ProfessionalIndustry)
	jobTitle := s.JobTitleScore(r.JobTitle, criteria.ProfessionalJobTitles)

	return ScoreBreakdown{
		DistanceScore: distance,
		IndustryScore: industry,
		JobTitleScore: jobTitle,
		TotalScore:    TotalScore(distance.Score, industry, jobTitle),
	}, nil
}

// ShortestDistance returns the distance from p to the closest city.
func (s *Scorer) ShortestDistance(p geo.Point, cities []project.City) (float64, error) {
	if len(cities) == 0 {
		return 0, eris.Wrap(apperr.ErrConfiguration, "no cities to measure distance to")
	}
	if !p.IsFinite() {
		return 0, eris.Wrapf(apperr.ErrMalformedInput, "respondent coordinates (%v, %v) are not finite", p.Latitude, p.Longitude)
	}

	shortest := s.measurer.Distance(p, cities[0].Point)
	for _, city := range cities[1:] {
		if d := s.measurer.Distance(p, city.Point); d < shortest {
			shortest = d
		}
	}
	return shortest, nil
}

// DistanceScore is 1 at a target city, 0 at the cutoff radius and negative beyond it.
func (s *Scorer) DistanceScore(p geo.Point, cities []project.City) (DistanceScore, error) {
	shortest, err := s.ShortestDistance(p, cities)
	if err != nil {
		return DistanceScore{}, err
	}

	return DistanceScore{
		Score:            1 - (shortest / s.distanceCutoff),
		ShortestDistance: shortest,
	}, nil
}

// IndustryScore matches every respondent industry against the desired ones.
func (s *Scorer) IndustryScore(industries, desired []string) float64 {
	matches := s.aggregator.AggregateMatches(industries, desired)
	return ScoreFromMatches(matches, len(desired))
}

// JobTitleScore matches the respondent job title against the desired ones.
func (s *Scorer) JobTitleScore(jobTitle string, desired []string) float64 {
	matches := s.extractor.Extract(jobTitle, desired)
	return ScoreFromMatches(matches, len(desired))
}

// TotalScore is the mean of the three scores, or exactly 0 when the
// respondent is at or beyond the cutoff radius.
func TotalScore(distanceScore, industryScore, jobTitleScore float64) float64 {
	if distanceScore <= 0 {
		return 0
	}
	return (distanceScore + industryScore + jobTitleScore) / 3
}
