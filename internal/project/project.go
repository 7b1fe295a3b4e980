// Package project loads the selection criteria a run ranks respondents against.
package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/geo"
)

// Criteria is the project specification: where respondents should be and what they should do.
type Criteria struct {
	Cities                []City   `json:"cities"`
	ProfessionalIndustry  []string `json:"professionalIndustry"`
	ProfessionalJobTitles []string `json:"professionalJobTitles"`
}

// City is a target location.
type City struct {
	Name  string    `json:"name,omitempty"`
	Point geo.Point `json:"point"`
}

// Points returns the city locations in order.
func (c *Criteria) Points() []geo.Point {
	points := make([]geo.Point, 0, len(c.Cities))
	for _, city := range c.Cities {
		points = append(points, city.Point)
	}
	return points
}

// projectFile mirrors the on-disk format, where each city nests its
// coordinates two levels deep under location.location.
type projectFile struct {
	Cities []struct {
		Name     string `json:"name"`
		Location *struct {
			Location *struct {
				Latitude  *float64 `json:"latitude"`
				Longitude *float64 `json:"longitude"`
			} `json:"location"`
		} `json:"location"`
	} `json:"cities"`
	ProfessionalIndustry  []string `json:"professionalIndustry"`
	ProfessionalJobTitles []string `json:"professionalJobTitles"`
}

// Load reads a project file. Relative paths are resolved against the working directory.
func Load(path string) (*Criteria, error) {
	fullPath, err := resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, eris.Wrapf(apperr.ErrDependency, "read project file %q: %s", fullPath, err)
	}

	return Parse(data)
}

// Parse decodes a project document.
func Parse(data []byte) (*Criteria, error) {
	var raw projectFile
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, eris.Wrapf(apperr.ErrMalformedInput, "project field %q: %s", typeErr.Field, err)
		}
		return nil, eris.Wrapf(apperr.ErrDependency, "parse project json: %s", err)
	}

	criteria := &Criteria{
		Cities:                make([]City, 0, len(raw.Cities)),
		ProfessionalIndustry:  raw.ProfessionalIndustry,
		ProfessionalJobTitles: raw.ProfessionalJobTitles,
	}

	for i, city := range raw.Cities {
		if city.Location == nil || city.Location.Location == nil ||
			city.Location.Location.Latitude == nil || city.Location.Location.Longitude == nil {
			return nil, eris.Wrapf(apperr.ErrMalformedInput, "city %d has no location.location.latitude/longitude", i)
		}

		point := geo.Point{
			Latitude:  *city.Location.Location.Latitude,
			Longitude: *city.Location.Location.Longitude,
		}
		criteria.Cities = append(criteria.Cities, City{Name: city.Name, Point: point})
	}

	return criteria, nil
}

func resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", eris.Wrapf(apperr.ErrDependency, "get working directory: %s", err)
	}
	return filepath.Join(wd, path), nil
}
