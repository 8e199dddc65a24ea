// Package config loads and saves the desired addon list, stored as TOML:
//
//	addonDir = "/path/to/Elder Scrolls Online/live/AddOns"
//
//	[[addons]]
//	name = "LibDebugLogger"
//	url = "https://www.esoui.com/downloads/download2275"
//	dependency = true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ethanolivertroy/eso-addons/internal/models"
)

// ErrNotFound means the configuration file does not exist
var ErrNotFound = errors.New("config file not found")

// Load reads the configuration file at path
func Load(path string) (*models.Desired, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var desired models.Desired
	md, err := toml.Decode(string(data), &desired)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to parse config %s: unknown key %q", path, undecoded[0].String())
	}
	if desired.AddonDir == "" {
		return nil, fmt.Errorf("config %s: addonDir is not set", path)
	}

	return &desired, nil
}

// Save writes desired to path, replacing the file atomically
func Save(path string, desired *models.Desired) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(desired); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".eso-addons-*.toml")
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// FindByName returns the index of the entry called name, or -1
func FindByName(desired *models.Desired, name string) int {
	for i, e := range desired.Addons {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// FindByURL returns the index of the entry with the given URL, or -1
func FindByURL(desired *models.Desired, url string) int {
	if url == "" {
		return -1
	}
	for i, e := range desired.Addons {
		if e.URL == url {
			return i
		}
	}
	return -1
}

// Remove deletes the entry called name and returns it
func Remove(desired *models.Desired, name string) (models.DesiredEntry, error) {
	idx := FindByName(desired, name)
	if idx < 0 {
		return models.DesiredEntry{}, fmt.Errorf("%w: %s", models.ErrAddonNotFound, name)
	}
	entry := desired.Addons[idx]
	desired.Addons = append(desired.Addons[:idx], desired.Addons[idx+1:]...)
	return entry, nil
}
