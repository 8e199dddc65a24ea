package models

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultCDNPrefix is the only host download links are accepted from
const DefaultCDNPrefix = "https://cdn.esoui.com"

// DesiredEntry is one addon the user wants installed
type DesiredEntry struct {
	Name       string `toml:"name"`
	URL        string `toml:"url,omitempty"`
	Dependency bool   `toml:"dependency"` // Installed only to satisfy another addon
}

// Desired holds the persisted configuration file contents
type Desired struct {
	AddonDir string         `toml:"addonDir"`
	Addons   []DesiredEntry `toml:"addons"`
}

// Config holds runtime configuration for the CLI
type Config struct {
	// Path of the TOML file holding the desired addon list
	ConfigFile string

	// Output settings
	OutputFormat string // "terminal", "json"
	NoColor      bool

	// Cache settings
	CacheTTL time.Duration
	NoCache  bool

	// Network settings
	Timeout           time.Duration
	CDNPrefix         string
	RequestsPerSecond float64
	Verbose           bool
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ConfigFile:        DefaultConfigFile(),
		OutputFormat:      "terminal",
		CacheTTL:          time.Hour,
		NoCache:           false,
		Timeout:           60 * time.Second,
		CDNPrefix:         DefaultCDNPrefix,
		RequestsPerSecond: 2,
	}
}

// DefaultConfigFile returns ~/.eso-addons.toml, or a relative name when the
// home directory is unknown
func DefaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eso-addons.toml"
	}
	return filepath.Join(home, ".eso-addons.toml")
}
