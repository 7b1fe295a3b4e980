package scoring

import (
	"github.com/stretchr/testify/mock"

	"github.com/spigell/respondent-ranker/internal/fuzzy"
	"github.com/spigell/respondent-ranker/internal/geo"
	"github.com/spigell/respondent-ranker/internal/project"
	"github.com/spigell/respondent-ranker/internal/respondent"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(query string, choices []string) []fuzzy.Match {
	args := m.Called(query, choices)
	return args.Get(0).([]fuzzy.Match)
}

type mockMeasurer struct {
	mock.Mock
}

func (m *mockMeasurer) Distance(a, b geo.Point) float64 {
	args := m.Called(a, b)
	return args.Get(0).(float64)
}

type mockRespondentScorer struct {
	mock.Mock
}

func (m *mockRespondentScorer) Score(r *respondent.Respondent, criteria *project.Criteria) (ScoreBreakdown, error) {
	args := m.Called(r, criteria)
	return args.Get(0).(ScoreBreakdown), args.Error(1)
}

var testCities = []project.City{
	{Point: geo.Point{Latitude: 50, Longitude: 50}},
	{Point: geo.Point{Latitude: 80, Longitude: 80}},
	{Point: geo.Point{Latitude: 30, Longitude: 30}},
}
