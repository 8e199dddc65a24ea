package reporter

import (
	"encoding/json"

	"github.com/ethanolivertroy/eso-addons/internal/models"
)

// JSONReporter outputs the status in JSON format
type JSONReporter struct{}

type jsonOutput struct {
	AddonDir  string        `json:"addon_dir"`
	Summary   jsonSummary   `json:"summary"`
	Desired   []jsonDesired `json:"desired"`
	Errors    []jsonError   `json:"errors"`
	Missing   []string      `json:"missing_dependencies"`
	Unused    []string      `json:"unused_dependencies"`
	Unmanaged []jsonAddon   `json:"unmanaged"`
}

type jsonSummary struct {
	Desired      int  `json:"desired"`
	NotInstalled int  `json:"not_installed"`
	Clean        bool `json:"clean"`
}

type jsonDesired struct {
	Name       string `json:"name"`
	URL        string `json:"url,omitempty"`
	Dependency bool   `json:"dependency"`
	Installed  bool   `json:"installed"`
	Version    string `json:"version,omitempty"`
}

type jsonError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type jsonAddon struct {
	Name      string   `json:"name"`
	Version   string   `json:"version,omitempty"`
	DependsOn []string `json:"depends_on"`
}

// Report generates JSON output for the given status
func (r *JSONReporter) Report(status models.Status) ([]byte, error) {
	output := jsonOutput{
		AddonDir:  status.AddonDir,
		Summary:   jsonSummary{Desired: len(status.Desired), Clean: status.IsClean()},
		Desired:   make([]jsonDesired, 0, len(status.Desired)),
		Errors:    make([]jsonError, 0, len(status.Errors)),
		Missing:   nonNil(status.Missing),
		Unused:    nonNil(status.Unused),
		Unmanaged: make([]jsonAddon, 0, len(status.Unmanaged)),
	}

	for _, d := range status.Desired {
		if !d.Installed {
			output.Summary.NotInstalled++
		}
		output.Desired = append(output.Desired, jsonDesired{
			Name:       d.Entry.Name,
			URL:        d.Entry.URL,
			Dependency: d.Entry.Dependency,
			Installed:  d.Installed,
			Version:    d.Version,
		})
	}

	for _, e := range status.Errors {
		msg := ""
		if e.Err != nil {
			msg = e.Err.Error()
		}
		output.Errors = append(output.Errors, jsonError{Path: e.Path, Error: msg})
	}

	for _, a := range status.Unmanaged {
		output.Unmanaged = append(output.Unmanaged, jsonAddon{
			Name:      a.Name,
			Version:   a.Version,
			DependsOn: nonNil(a.DependsOn),
		})
	}

	return json.MarshalIndent(output, "", "  ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
