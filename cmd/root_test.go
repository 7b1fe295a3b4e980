package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/fuzzy"
	"github.com/spigell/respondent-ranker/internal/geo"
	"github.com/spigell/respondent-ranker/internal/output"
	"github.com/spigell/respondent-ranker/internal/scoring"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	configureEnv(v)
	setDefaults(v)
	return v
}

func TestGetConfigDefaults(t *testing.T) {
	config, err := getConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, geo.EarthRadiusKM, config.Scoring.EarthRadius)
	assert.Equal(t, float64(scoring.DefaultDistanceCutoff), config.Scoring.DistanceCutoff)
	assert.Equal(t, float64(fuzzy.DefaultCutoff), config.Scoring.FuzzyMatchCutoff)
	assert.Zero(t, config.Scoring.Workers)
	assert.Equal(t, fuzzy.ScorerRatio, config.Fuzzy.Scorer)
	assert.Equal(t, output.FormatJSON, config.Output.Format)
	assert.Empty(t, config.Filters.ExcludeFile)
	assert.Equal(t, fuzzy.ScorerRatio, config.ScoringConfig().Scorer)
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scoring:
  distance-cutoff: 250
  workers: 2
fuzzy:
  scorer: token_set_ratio
filters:
  limit: 10
output:
  format: table
`), 0o644))

	v := newTestViper()
	require.NoError(t, readConfig(v, path))

	config, err := getConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 250.0, config.Scoring.DistanceCutoff)
	assert.Equal(t, geo.EarthRadiusKM, config.Scoring.EarthRadius)
	assert.Equal(t, 2, config.Scoring.Workers)
	assert.Equal(t, 10, config.Filters.Limit)
	assert.Equal(t, output.FormatTable, config.Output.Format)
	assert.Equal(t, fuzzy.ScorerTokenSetRatio, config.ScoringConfig().Scorer)
}

func TestReadConfigMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.NoError(t, readConfig(viper.New(), ""))
}

func TestReadConfigMissingExplicitFile(t *testing.T) {
	err := readConfig(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrConfiguration))
}

func TestReadConfigBrokenDefaultFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, app+".yaml"), []byte("scoring: [unclosed"), 0o644))
	t.Chdir(dir)

	err := readConfig(viper.New(), "")
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrConfiguration))
}

func TestGetConfigFromEnv(t *testing.T) {
	t.Setenv("RANKER_SCORING_WORKERS", "4")
	t.Setenv("RANKER_FILTERS_MINIMUM_SCORE", "0.25")
	t.Setenv("RANKER_OUTPUT_FORMAT", "csv")

	config, err := getConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, 4, config.Scoring.Workers)
	assert.Equal(t, 0.25, config.Filters.MinimumScore)
	assert.Equal(t, output.FormatCSV, config.Output.Format)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	config := &Config{
		Scoring: scoring.Config{
			EarthRadius:      0,
			DistanceCutoff:   -1,
			FuzzyMatchCutoff: 101,
			Workers:          -2,
		},
		Fuzzy:  FuzzyConfig{Scorer: "partial"},
		Output: OutputConfig{Format: "xml"},
	}
	config.Filters.MinimumScore = 2
	config.Filters.Limit = -1

	err := config.Validate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrConfiguration))

	for _, key := range []string{
		"scoring.earth-radius",
		"scoring.distance-cutoff",
		"scoring.fuzzy-match-cutoff",
		"scoring.workers",
		`fuzzy.scorer "partial"`,
		"filters.minimum-score",
		"filters.limit",
		`output.format "xml"`,
	} {
		assert.Contains(t, err.Error(), key)
	}
}
