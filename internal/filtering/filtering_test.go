package filtering

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/respondent"
	"github.com/spigell/respondent-ranker/internal/scoring"
)

func ranked() *scoring.Results {
	return &scoring.Results{Items: []*scoring.RankedResult{
		{FirstName: "Cathleen", TotalScore: 0.92},
		{FirstName: "Bill", TotalScore: 0.81},
		{FirstName: "Tom", TotalScore: 0.4},
		{FirstName: "Ann", TotalScore: 0.33},
	}}
}

func writeExcludeFile(t *testing.T, names ...string) string {
	t.Helper()

	excluded := &respondent.ExcludedRespondents{}
	for _, name := range names {
		excluded.Items = append(excluded.Items, &respondent.ExcludedRespondent{FirstName: name})
	}

	path := filepath.Join(t.TempDir(), "exclude.json")
	require.NoError(t, excluded.ToFile(path))
	return path
}

func TestRunAllSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	cfg := &Config{
		ExcludeFile:  writeExcludeFile(t, "Bill"),
		MinimumScore: 0.35,
		Limit:        1,
	}

	results, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, Default(), ranked())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cathleen"}, results.Names())

	steps := observed.FilterMessage("filter step").All()
	require.Len(t, steps, 3)

	want := []struct {
		name                   string
		initial, dropped, left int64
	}{
		{"exclude_file", 4, 1, 3},
		{"minimum_score", 3, 1, 2},
		{"limit", 2, 1, 1},
	}
	for i, w := range want {
		fields := steps[i].ContextMap()
		assert.Equal(t, w.name, fields["name"])
		assert.Equal(t, w.initial, fields["initial"])
		assert.Equal(t, w.dropped, fields["dropped"])
		assert.Equal(t, w.left, fields["left"])
	}
}

func TestRunKeepsOrder(t *testing.T) {
	cfg := &Config{ExcludeFile: writeExcludeFile(t, "Cathleen", "Tom")}

	results, err := Run(context.Background(), cfg, Deps{}, Default(), ranked())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bill", "Ann"}, results.Names())
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	steps := Default()
	DisableByName(steps, "limit", "interactive review")

	results, err := Run(context.Background(), &Config{Limit: 1}, Deps{Logger: zap.New(core)}, steps, ranked())
	require.NoError(t, err)
	assert.Equal(t, 4, results.Len())

	disabled := observed.FilterMessage("filter disabled").All()
	require.Len(t, disabled, 1)
	assert.Equal(t, "limit", disabled[0].ContextMap()["name"])

	statuses := Describe(steps)
	require.Len(t, statuses, 3)
	assert.False(t, statuses[2].Enabled)
	assert.Equal(t, "interactive review", statuses[2].Reason)
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "negative limit", cfg: &Config{Limit: -1}},
		{name: "minimum score above one", cfg: &Config{MinimumScore: 1.5}},
		{name: "negative minimum score", cfg: &Config{MinimumScore: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ranked()
			results, err := Run(context.Background(), tt.cfg, Deps{}, Default(), input)
			require.Error(t, err)
			assert.Nil(t, results)
			assert.True(t, eris.Is(err, apperr.ErrConfiguration))
			assert.Equal(t, 4, input.Len())
		})
	}
}

func TestRunNilConfigIsNoop(t *testing.T) {
	results, err := Run(context.Background(), nil, Deps{}, Default(), ranked())
	require.NoError(t, err)
	assert.Equal(t, 4, results.Len())
}

func TestExcludeFileMissingIsEmpty(t *testing.T) {
	cfg := &Config{ExcludeFile: filepath.Join(t.TempDir(), "absent.json")}

	results, err := Run(context.Background(), cfg, Deps{}, Default(), ranked())
	require.NoError(t, err)
	assert.Equal(t, 4, results.Len())
}

func TestExcludeFileBroken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, Default(), ranked())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude_file")
}

func TestMinimumScoreBoundaryIsKept(t *testing.T) {
	f := NewMinimumScore()
	require.NoError(t, f.Validate(&Config{MinimumScore: 0.4}))

	results, step, err := f.Apply(context.Background(), Deps{Logger: zap.NewNop()}, ranked())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cathleen", "Bill", "Tom"}, results.Names())
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, step)
}

func TestLimitZeroMeansUnlimited(t *testing.T) {
	f := NewLimit()
	require.NoError(t, f.Validate(&Config{}))

	results, step, err := f.Apply(context.Background(), Deps{Logger: zap.NewNop()}, ranked())
	require.NoError(t, err)
	assert.Equal(t, 4, results.Len())
	assert.Equal(t, Step{Initial: 4, Dropped: 0, Left: 4}, step)
	assert.Equal(t, "0", f.(statusProvider).Status().Details["limit"])
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, &Config{}, Deps{}, Default(), ranked())
	assert.ErrorIs(t, err, context.Canceled)
}
