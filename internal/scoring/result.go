package scoring

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spigell/respondent-ranker/internal/respondent"
)

const unknownCity = "unknown"

type DistanceScore struct {
	Score            float64 `json:"score"`
	ShortestDistance float64 `json:"shortestDistance"`
}

// ScoreBreakdown holds every score computed for one respondent.
type ScoreBreakdown struct {
	DistanceScore DistanceScore `json:"distanceScore"`
	IndustryScore float64       `json:"industryScore"`
	JobTitleScore float64       `json:"jobTitleScore"`
	TotalScore    float64       `json:"totalScore"`
}

// RankedResult is the externally visible record of a ranked respondent.
type RankedResult struct {
	FirstName  string  `json:"firstName"`
	Distance   float64 `json:"distance"`
	TotalScore float64 `json:"totalScore"`

	City      string         `json:"-"`
	Breakdown ScoreBreakdown `json:"-"`
}

// Results is a ranked list, best first.
type Results struct {
	Items []*RankedResult
}

func (r *Results) Len() int {
	return len(r.Items)
}

func (r *Results) Names() []string {
	names := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		names = append(names, item.FirstName)
	}
	return names
}

// Exclude removes every result whose first name is listed, keeping the
// order of the rest, and returns the removed names.
func (r *Results) Exclude(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	var excluded []string
	r.Items = slices.DeleteFunc(r.Items, func(item *RankedResult) bool {
		if slices.Contains(names, item.FirstName) {
			excluded = append(excluded, item.FirstName)
			return true
		}
		return false
	})
	return excluded
}

// Truncate keeps the first n results.
func (r *Results) Truncate(n int) []string {
	if n < 0 || n >= len(r.Items) {
		return nil
	}

	dropped := make([]string, 0, len(r.Items)-n)
	for _, item := range r.Items[n:] {
		dropped = append(dropped, item.FirstName)
	}
	r.Items = r.Items[:n]
	return dropped
}

func (r *Results) ToExcluded(reason string) *respondent.ExcludedRespondents {
	excluded := &respondent.ExcludedRespondents{}
	for _, item := range r.Items {
		excluded.Items = append(excluded.Items, &respondent.ExcludedRespondent{
			FirstName:  item.FirstName,
			City:       item.City,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// ReportByCity groups results by respondent city, keeping rank order inside each city.
func (r *Results) ReportByCity() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range r.Items {
		key := strings.TrimSpace(item.City)
		if key == "" {
			key = unknownCity
		}
		report[key] = append(report[key], map[string]string{
			"first_name":     item.FirstName,
			"distance_km":    fmt.Sprintf("%.1f", item.Distance),
			"total_score":    fmt.Sprintf("%.3f", item.TotalScore),
			"industry_score": fmt.Sprintf("%.3f", item.Breakdown.IndustryScore),
			"job_score":      fmt.Sprintf("%.3f", item.Breakdown.JobTitleScore),
		})
	}
	return report
}
