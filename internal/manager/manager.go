package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ethanolivertroy/eso-addons/internal/clients"
	"github.com/ethanolivertroy/eso-addons/internal/graph"
	"github.com/ethanolivertroy/eso-addons/internal/models"
	"github.com/ethanolivertroy/eso-addons/internal/scanner"
)

// Resolver turns an addon page URL into a download link
type Resolver interface {
	Resolve(ctx context.Context, pageURL string) (clients.Resolution, error)
}

// ArchiveInstaller unpacks an archive below an addon root
type ArchiveInstaller interface {
	Install(ctx context.Context, downloadURL, addonRoot string) (string, error)
}

// Manager installs, lists and removes addons in one addon directory.
// Calls are not synchronised; callers must not overlap them on one directory.
type Manager struct {
	addonDir  string
	scanner   *scanner.Scanner
	resolver  Resolver
	installer ArchiveInstaller
	logger    *log.Logger
}

// New creates a new Manager for addonDir
func New(addonDir string, resolver Resolver, installer ArchiveInstaller, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if abs, err := filepath.Abs(addonDir); err == nil {
		addonDir = abs
	}
	return &Manager{
		addonDir:  addonDir,
		scanner:   scanner.New(logger),
		resolver:  resolver,
		installer: installer,
		logger:    logger,
	}
}

// AddonDir returns the absolute addon directory
func (m *Manager) AddonDir() string {
	return m.addonDir
}

// GetAddons scans the addon directory
func (m *Manager) GetAddons() (models.AddonList, error) {
	return m.scanner.Scan(m.addonDir)
}

// GetAddon returns the installed addon called name. A missing addon is
// reported with ok == false, not an error.
func (m *Manager) GetAddon(name string) (addon models.Addon, ok bool, err error) {
	list, err := m.GetAddons()
	if err != nil {
		return models.Addon{}, false, err
	}
	addon, ok = list.Find(name)
	return addon, ok, nil
}

// Status scans the addon directory and compares it with desired
func (m *Manager) Status(desired []models.DesiredEntry) (models.Status, error) {
	list, err := m.GetAddons()
	if err != nil {
		return models.Status{}, err
	}
	return graph.BuildStatus(m.addonDir, list, desired), nil
}

// DeleteAddon removes the addon's directory from the addon directory
func (m *Manager) DeleteAddon(addon models.Addon) error {
	target, err := m.addonPath(addon.Name)
	if err != nil {
		return err
	}

	m.logger.Info("Removing addon", "addon", addon.Name, "path", target)
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("%w %s: %w", models.ErrRemovalFailed, addon.Name, err)
	}
	return nil
}

// addonPath returns addonDir/name, refusing names that resolve to the addon
// directory itself or outside it
func (m *Manager) addonPath(name string) (string, error) {
	target := filepath.Join(m.addonDir, name)
	rel, err := filepath.Rel(m.addonDir, target)
	if err != nil || name == "" || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w %q: path is outside the addon directory", models.ErrRemovalFailed, name)
	}
	return target, nil
}

// DownloadAddon resolves the addon page, installs its archive and returns
// the addon as read back from disk. Its name comes from the archive, not
// from the page.
func (m *Manager) DownloadAddon(ctx context.Context, pageURL string) (models.Addon, error) {
	state := StateIdle
	transition := func(next State) {
		m.logger.Debug("Install state", "url", pageURL, "from", state, "state", next)
		state = next
	}
	fail := func(err error) (models.Addon, error) {
		m.logger.Error("Install failed", "url", pageURL, "state", state, "err", err)
		return models.Addon{}, &InstallError{URL: pageURL, State: state, Err: err}
	}

	transition(StateFetching)
	res, err := m.resolver.Resolve(ctx, pageURL)
	if err != nil {
		return fail(err)
	}
	transition(StateLinkResolved)

	transition(StateDownloading)
	// Install covers both downloading and extracting
	installed, err := m.installer.Install(ctx, res.DownloadURL, m.addonDir)
	if err != nil {
		if isExtractError(err) {
			state = StateExtracting
		}
		return fail(err)
	}
	transition(StateExtracting)

	transition(StateRescanning)
	addon, err := m.scanner.ReadAddon(installed)
	if err != nil {
		return fail(err)
	}
	transition(StateDone)

	m.logger.Info("Installed addon", "addon", addon.Name, "title", res.DisplayName, "path", installed)
	return addon, nil
}

func isExtractError(err error) bool {
	return errors.Is(err, models.ErrExtractFailed) || errors.Is(err, models.ErrPathTraversal)
}
