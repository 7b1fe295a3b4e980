package respondent

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rotisserie/eris"

	"github.com/spigell/respondent-ranker/internal/apperr"
)

const utf8BOM = "\ufeff"

// Load reads respondents from path. Files ending in .xlsx are read as
// spreadsheets, everything else as comma-delimited text with a header row.
func Load(path string) ([]*Respondent, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path, XLSXOptions{})
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(apperr.ErrDependency, "open respondents file %q: %s", path, err)
	}
	defer file.Close()

	return ParseCSV(file)
}

// ParseCSV parses comma-delimited text whose first row names the columns.
func ParseCSV(r io.Reader) ([]*Respondent, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(apperr.ErrDependency, "read respondents csv: %s", err)
	}

	if len(records) == 0 {
		return nil, eris.Wrap(apperr.ErrDependency, "respondents csv has no header row")
	}

	return decodeRows(records[0], records[1:])
}

// decodeRows turns each row into a map keyed by header, leaving out empty
// cells so that missing values stay unset, and decodes it into a Respondent.
func decodeRows(header []string, rows [][]string) ([]*Respondent, error) {
	columns := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		columns[i] = col
	}

	respondents := make([]*Respondent, 0, len(rows))
	for i, row := range rows {
		// header is line 1
		line := i + 2

		fields := make(map[string]any, len(columns))
		for j, cell := range row {
			if j >= len(columns) || columns[j] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			fields[columns[j]] = strings.TrimSpace(cell)
		}

		if len(fields) == 0 {
			continue
		}

		respondent, err := decodeRow(fields)
		if err != nil {
			return nil, eris.Wrapf(err, "respondent on line %d", line)
		}

		respondents = append(respondents, respondent)
	}

	return respondents, nil
}

func decodeRow(fields map[string]any) (*Respondent, error) {
	var (
		respondent Respondent
		md         mapstructure.Metadata
	)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           &respondent,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return nil, eris.Wrap(err, "build row decoder")
	}

	if err := decoder.Decode(fields); err != nil {
		return nil, eris.Wrapf(apperr.ErrMalformedInput, "decode row: %s", err)
	}

	for _, required := range []string{FieldLatitude, FieldLongitude} {
		if slices.Contains(md.Unset, required) {
			return nil, eris.Wrapf(apperr.ErrMalformedInput, "%s is missing", required)
		}
	}

	if !respondent.Point().IsFinite() {
		return nil, eris.Wrapf(apperr.ErrMalformedInput, "coordinates (%v, %v) are not finite numbers", respondent.Latitude, respondent.Longitude)
	}

	respondent.Industries = cleanIndustries(respondent.Industries)

	return &respondent, nil
}
