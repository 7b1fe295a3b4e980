// Package output writes ranked respondents to stdout or a file.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/scoring"
)

const (
	FormatJSON  = "json"
	FormatTable = "table"
	FormatCSV   = "csv"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatTable, FormatCSV}

var header = []string{"firstName", "distance", "totalScore"}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// Sink renders results in one format.
type Sink struct {
	format string
	out    io.Writer
}

func NewSink(format string, out io.Writer) (*Sink, error) {
	if format == "" {
		format = FormatJSON
	}
	if !ValidFormat(format) {
		return nil, eris.Wrapf(apperr.ErrConfiguration, "unknown output format %q", format)
	}
	return &Sink{format: format, out: out}, nil
}

// Open returns a Sink writing to path, or to stdout when path is empty.
// The returned close function must be called once the sink is no longer used.
func Open(format, path string) (*Sink, func() error, error) {
	if path == "" {
		sink, err := NewSink(format, os.Stdout)
		return sink, func() error { return nil }, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, eris.Wrapf(apperr.ErrDependency, "open output file %q: %v", path, err)
	}

	sink, err := NewSink(format, file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return sink, file.Close, nil
}

func (s *Sink) Format() string {
	return s.format
}

// Emit writes results in the sink's format.
func (s *Sink) Emit(r *scoring.Results) error {
	items := []*scoring.RankedResult{}
	if r != nil && r.Items != nil {
		items = r.Items
	}

	var err error
	switch s.format {
	case FormatTable:
		err = s.writeTable(items)
	case FormatCSV:
		err = s.writeCSV(items)
	default:
		err = s.writeJSON(items)
	}
	if err != nil {
		return eris.Wrapf(apperr.ErrDependency, "write %s output: %v", s.format, err)
	}
	return nil
}

// EmitReport writes any report as indented JSON regardless of the sink format.
func (s *Sink) EmitReport(report any) error {
	if err := s.writeJSON(report); err != nil {
		return eris.Wrapf(apperr.ErrDependency, "write report: %v", err)
	}
	return nil
}

func (s *Sink) writeJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Sink) writeTable(items []*scoring.RankedResult) error {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tFIRST NAME\tCITY\tDISTANCE KM\tTOTAL SCORE")
	for i, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.3f\n", i+1, item.FirstName, item.City, item.Distance, item.TotalScore)
	}
	return w.Flush()
}

func (s *Sink) writeCSV(items []*scoring.RankedResult) error {
	w := csv.NewWriter(s.out)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, item := range items {
		record := []string{
			item.FirstName,
			strconv.FormatFloat(item.Distance, 'f', -1, 64),
			strconv.FormatFloat(item.TotalScore, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// DumpToTmpFile writes results as indented JSON to a new temporary file and returns its name.
func DumpToTmpFile(r *scoring.Results) (string, error) {
	file, err := os.CreateTemp("", "respondents_*.json")
	if err != nil {
		return "", eris.Wrap(err, "create temporary file")
	}
	defer file.Close()

	sink, err := NewSink(FormatJSON, file)
	if err != nil {
		return "", err
	}
	if err := sink.Emit(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
