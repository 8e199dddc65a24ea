package scanner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ethanolivertroy/eso-addons/internal/models"
	"github.com/ethanolivertroy/eso-addons/internal/parsers"
)

var errMissingManifest = errors.New("missing addon metadata file")

// Scanner discovers addons below an addon root
type Scanner struct {
	logger *log.Logger
}

// New creates a new Scanner. A nil logger discards output.
func New(logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scanner{logger: logger}
}

// Scan walks root and returns every addon directory found below it.
// Failures to read a single addon are collected in the result; only a
// root that cannot be listed at all is reported as an error.
func (s *Scanner) Scan(root string) (models.AddonList, error) {
	list := models.AddonList{Addons: []models.Addon{}, Errors: []models.ScanError{}}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return list, fmt.Errorf("%w: %s: %w", models.ErrDirectoryUnavailable, root, err)
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		return list, fmt.Errorf("%w: %s: %w", models.ErrDirectoryUnavailable, absRoot, err)
	}

	s.logger.Debug("Scanning addon directory", "path", absRoot)

	// A trailing separator makes WalkDir follow a symlinked root. Paths
	// below it are still joined onto absRoot.
	walkRoot := absRoot
	if !strings.HasSuffix(walkRoot, string(filepath.Separator)) {
		walkRoot += string(filepath.Separator)
	}

	accepted := make(map[string]bool)
	err = filepath.WalkDir(walkRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == walkRoot {
				return fmt.Errorf("%w: %s: %w", models.ErrDirectoryUnavailable, absRoot, err)
			}
			if accepted[p] {
				// Already read as an addon; only its contents are unlistable
				s.logger.Debug("Cannot list addon directory", "path", p, "err", err)
			} else {
				s.logger.Warn("Cannot read directory", "path", p, "err", err)
				list.Errors = append(list.Errors, models.ScanError{Path: p, Err: err})
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() || p == walkRoot {
			return nil
		}

		manifest, err := findManifest(p)
		if err != nil {
			s.logger.Warn("Cannot read directory", "path", p, "err", err)
			list.Errors = append(list.Errors, models.ScanError{Path: p, Err: err})
			return filepath.SkipDir
		}
		if manifest == "" {
			return nil
		}

		addon, err := readManifest(p, manifest)
		if err != nil {
			s.logger.Warn("Cannot read addon", "path", p, "err", err)
			list.Errors = append(list.Errors, models.ScanError{Path: p, Err: err})
			return nil
		}

		s.logger.Debug("Found addon", "addon", addon.Name, "path", p, "depends", addon.DependsOn)
		accepted[p] = true
		list.Addons = append(list.Addons, addon)
		return nil
	})
	if err != nil {
		return list, err
	}

	return list, nil
}

// ReadAddon reads the addon stored in dir. The returned error wraps
// models.ErrAddonRead.
func (s *Scanner) ReadAddon(dir string) (models.Addon, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return models.Addon{}, models.ScanError{Path: dir, Err: err}
	}

	manifest, err := findManifest(absDir)
	if err != nil {
		return models.Addon{}, models.ScanError{Path: absDir, Err: err}
	}
	if manifest == "" {
		return models.Addon{}, models.ScanError{Path: absDir, Err: errMissingManifest}
	}

	addon, err := readManifest(absDir, manifest)
	if err != nil {
		return models.Addon{}, models.ScanError{Path: absDir, Err: err}
	}
	return addon, nil
}

// findManifest returns the path of the manifest directly inside dir, or ""
// when dir holds none
func findManifest(dir string) (string, error) {
	for _, name := range parsers.ManifestNames(filepath.Base(dir)) {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			continue
		}
		return p, nil
	}
	return "", nil
}

func readManifest(dir, manifest string) (models.Addon, error) {
	f, err := os.Open(manifest)
	if err != nil {
		return models.Addon{}, err
	}
	defer f.Close()

	addon, err := parsers.Parse(filepath.Base(dir), f)
	if err != nil {
		return models.Addon{}, fmt.Errorf("failed to read %s: %w", filepath.Base(manifest), err)
	}
	addon.Path = dir
	return addon, nil
}
