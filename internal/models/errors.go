package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryUnavailable means the addon root is missing or unreadable
	ErrDirectoryUnavailable = errors.New("addon directory unavailable")

	// ErrAddonRead means a single addon's metadata could not be read
	ErrAddonRead = errors.New("cannot read addon")

	// ErrMetadataMissing means the addon page has no og:title
	ErrMetadataMissing = errors.New("addon page metadata missing")

	// ErrLinkNotFound means the addon page has no CDN download link
	ErrLinkNotFound = errors.New("CDN link missing")

	// ErrDownloadFailed covers network failures while fetching a page or archive
	ErrDownloadFailed = errors.New("download failed")

	// ErrExtractFailed covers unreadable or malformed archives
	ErrExtractFailed = errors.New("extract failed")

	// ErrPathTraversal means an archive entry would land outside the addon root
	ErrPathTraversal = errors.New("archive entry escapes addon directory")

	// ErrRemovalFailed means an addon directory could not be deleted
	ErrRemovalFailed = errors.New("cannot remove addon")

	// ErrAddonNotFound means no configured or installed addon has the given name
	ErrAddonNotFound = errors.New("addon not found")
)

// ScanError records why a single addon directory was skipped during a scan
type ScanError struct {
	Path string
	Err  error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrAddonRead, e.Path, e.Err)
}

func (e ScanError) Unwrap() error {
	return e.Err
}

// Is reports ErrAddonRead so callers can match any per-addon failure
func (e ScanError) Is(target error) bool {
	return target == ErrAddonRead
}
