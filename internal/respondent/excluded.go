package respondent

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
)

type ExcludedRespondents struct {
	Items []*ExcludedRespondent
}

type ExcludedRespondent struct {
	FirstName  string
	City       string
	Reason     string `json:",omitempty"`
	ExcludedAt time.Time
}

// GetExcludedFromFile reads an exclude file. An empty file yields an empty list.
func GetExcludedFromFile(path string) (*ExcludedRespondents, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open exclude file %q", path)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, eris.Wrapf(err, "stat exclude file %q", path)
	}

	if stat.Size() == 0 {
		return &ExcludedRespondents{}, nil
	}

	var excluded ExcludedRespondents
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, eris.Wrapf(err, "decode exclude file %q", path)
	}
	return &excluded, nil
}

// GetExcludedFromFileOrEmpty is GetExcludedFromFile that treats a missing file as empty.
func GetExcludedFromFileOrEmpty(path string) (*ExcludedRespondents, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &ExcludedRespondents{}, nil
	}
	return GetExcludedFromFile(path)
}

func (e *ExcludedRespondents) Append(s *ExcludedRespondents) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedRespondents) Len() int {
	return len(e.Items)
}

func (e *ExcludedRespondents) Names() []string {
	names := make([]string, 0, len(e.Items))
	for _, r := range e.Items {
		names = append(names, r.FirstName)
	}
	return names
}

// ToFile overwrites path with the list.
func (e *ExcludedRespondents) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return eris.Wrapf(err, "open exclude file %q", path)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return eris.Wrapf(err, "encode exclude file %q", path)
	}
	return nil
}
