// Package respondent holds respondent records and reads them from CSV or XLSX files.
package respondent

import (
	"strings"

	"github.com/spigell/respondent-ranker/internal/geo"
)

// Required columns.
const (
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
)

// Respondent is one parsed input row.
type Respondent struct {
	FirstName  string   `mapstructure:"firstName" json:"firstName"`
	Gender     *string  `mapstructure:"gender" json:"gender,omitempty"`
	JobTitle   string   `mapstructure:"jobTitle" json:"jobTitle,omitempty"`
	Industries []string `mapstructure:"industry" json:"industries,omitempty"`
	City       string   `mapstructure:"city" json:"city,omitempty"`
	Latitude   float64  `mapstructure:"latitude" json:"latitude"`
	Longitude  float64  `mapstructure:"longitude" json:"longitude"`
}

// Point returns the respondent location.
func (r *Respondent) Point() geo.Point {
	return geo.Point{Latitude: r.Latitude, Longitude: r.Longitude}
}

// Names returns the first names of the respondents in order.
func Names(respondents []*Respondent) []string {
	names := make([]string, 0, len(respondents))
	for _, r := range respondents {
		names = append(names, r.FirstName)
	}
	return names
}

func cleanIndustries(industries []string) []string {
	if len(industries) == 0 {
		return nil
	}

	cleaned := make([]string, 0, len(industries))
	for _, industry := range industries {
		industry = strings.TrimSpace(industry)
		if industry == "" {
			continue
		}
		cleaned = append(cleaned, industry)
	}

	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
