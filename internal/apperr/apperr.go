// Package apperr holds the error kinds shared across the ranker.
package apperr

import "github.com/rotisserie/eris"

var (
	// ErrConfiguration means the run cannot be scored as configured, e.g. a project without cities.
	ErrConfiguration = eris.New("configuration error")
	// ErrMalformedInput means a respondent or project record lacks a required numeric field.
	ErrMalformedInput = eris.New("malformed input")
	// ErrDependency means an input could not be read or parsed.
	ErrDependency = eris.New("dependency error")
)
