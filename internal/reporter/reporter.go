package reporter

import "github.com/ethanolivertroy/eso-addons/internal/models"

// Reporter is the interface for output formatters
type Reporter interface {
	// Report generates output for the given status
	Report(status models.Status) ([]byte, error)
}

// Get returns a reporter for the specified format
func Get(format string, noColor bool) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	default:
		return NewTerminalReporter(noColor)
	}
}
