package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/scoring"
)

func results() *scoring.Results {
	return &scoring.Results{Items: []*scoring.RankedResult{
		{FirstName: "Cathleen", City: "Racine", Distance: 88.31, TotalScore: 0.92},
		{FirstName: "Bill", City: "Evanston", Distance: 18.6, TotalScore: 0.5},
	}}
}

func TestEmitJSON(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSink(FormatJSON, &buf)
	require.NoError(t, err)

	require.NoError(t, sink.Emit(results()))
	assert.JSONEq(t, `[
		{"firstName": "Cathleen", "distance": 88.31, "totalScore": 0.92},
		{"firstName": "Bill", "distance": 18.6, "totalScore": 0.5}
	]`, buf.String())
	assert.Contains(t, buf.String(), "\n  {")
}

func TestEmitJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSink("", &buf)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, sink.Format())

	require.NoError(t, sink.Emit(&scoring.Results{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEmitCSV(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSink(FormatCSV, &buf)
	require.NoError(t, err)

	require.NoError(t, sink.Emit(results()))
	assert.Equal(t, "firstName,distance,totalScore\nCathleen,88.31,0.92\nBill,18.6,0.5\n", buf.String())
}

func TestEmitTable(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSink(FormatTable, &buf)
	require.NoError(t, err)

	require.NoError(t, sink.Emit(results()))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "Cathleen")
	assert.Contains(t, lines[1], "88.3")
	assert.Contains(t, lines[1], "0.920")
	assert.Contains(t, lines[2], "Evanston")
}

func TestNewSinkUnknownFormat(t *testing.T) {
	_, err := NewSink("xml", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrConfiguration))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranked.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the result\n"), 0o644))

	sink, closeFn, err := Open(FormatCSV, path)
	require.NoError(t, err)
	require.NoError(t, sink.Emit(&scoring.Results{}))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "firstName,distance,totalScore\n", string(data))
}

func TestOpenMissingDirectory(t *testing.T) {
	_, _, err := Open(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrDependency))
}

func TestEmitReport(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSink(FormatCSV, &buf)
	require.NoError(t, err)

	require.NoError(t, sink.EmitReport(results().ReportByCity()))

	var report map[string][]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "Bill", report["Evanston"][0]["first_name"])
}

func TestDumpToTmpFile(t *testing.T) {
	name, err := DumpToTmpFile(results())
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Cathleen", decoded[0]["firstName"])
}
