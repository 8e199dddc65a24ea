package installer

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ethanolivertroy/eso-addons/internal/models"
)

// Opener streams the body behind a URL
type Opener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Installer downloads addon archives and unpacks them below an addon root
type Installer struct {
	opener Opener
	logger *log.Logger
}

// New creates a new Installer. A nil logger discards output.
func New(opener Opener, logger *log.Logger) *Installer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Installer{opener: opener, logger: logger}
}

// Install downloads the zip archive at downloadURL, extracts it below
// addonRoot and returns the directory of the addon it contained.
//
// Every entry is validated before anything is written: an entry that would
// land outside addonRoot aborts the install with models.ErrPathTraversal.
func (i *Installer) Install(ctx context.Context, downloadURL, addonRoot string) (string, error) {
	root, err := filepath.Abs(addonRoot)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrExtractFailed, err)
	}

	tmp, err := os.CreateTemp("", "eso-addon-*.zip")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp file: %w", models.ErrDownloadFailed, err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	size, err := i.download(ctx, downloadURL, tmp)
	if err != nil {
		return "", err
	}

	archive, err := zip.NewReader(tmp, size)
	if errors.Is(err, zip.ErrInsecurePath) {
		return "", fmt.Errorf("%w: %s: %w", models.ErrPathTraversal, downloadURL, err)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", models.ErrExtractFailed, downloadURL, err)
	}
	if len(archive.File) == 0 {
		return "", fmt.Errorf("%w: %s: archive is empty", models.ErrExtractFailed, downloadURL)
	}

	return i.Extract(archive, root)
}

func (i *Installer) download(ctx context.Context, url string, dst *os.File) (int64, error) {
	body, err := i.opener.Open(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(dst, body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: failed to save archive: %w", models.ErrDownloadFailed, url, err)
	}

	i.logger.Debug("Downloaded archive", "url", url, "bytes", n, "tmp", dst.Name())
	return n, nil
}

type plannedEntry struct {
	file *zip.File
	dest string
	dir  bool
}

// Extract unpacks archive below root, which must be absolute, and returns
// root joined with the archive's top-level directory.
func (i *Installer) Extract(archive *zip.Reader, root string) (string, error) {
	if len(archive.File) == 0 {
		return "", fmt.Errorf("%w: archive is empty", models.ErrExtractFailed)
	}

	plan := make([]plannedEntry, 0, len(archive.File))
	for _, f := range archive.File {
		dest, err := DestPath(root, f.Name)
		if err != nil {
			return "", err
		}
		isDir := strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, `\`) || f.FileInfo().IsDir()
		if !isDir && dest == root {
			return "", fmt.Errorf("%w: entry %q has no file name", models.ErrExtractFailed, f.Name)
		}
		plan = append(plan, plannedEntry{file: f, dest: dest, dir: isDir})
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create addon directory: %w", models.ErrExtractFailed, err)
	}

	for _, e := range plan {
		if e.dir {
			if err := os.MkdirAll(e.dest, 0o755); err != nil {
				return "", fmt.Errorf("%w: failed to create directory %s: %w", models.ErrExtractFailed, e.file.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(e.dest), 0o755); err != nil {
			return "", fmt.Errorf("%w: failed to create parent directory for %s: %w", models.ErrExtractFailed, e.file.Name, err)
		}
		if err := extractFile(e.file, e.dest); err != nil {
			return "", fmt.Errorf("%w: failed to extract %s: %w", models.ErrExtractFailed, e.file.Name, err)
		}
	}

	top := RootDir(archive.File[0].Name)
	installed := filepath.Join(root, filepath.FromSlash(top))
	i.logger.Debug("Extracted archive", "entries", len(plan), "path", installed)
	return installed, nil
}

// DestPath joins an archive entry name onto root and rejects names that are
// absolute or resolve outside root
func DestPath(root, name string) (string, error) {
	clean := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" || strings.HasPrefix(clean, string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", models.ErrPathTraversal, name)
	}

	dest := filepath.Join(root, clean)
	rel, err := filepath.Rel(root, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", models.ErrPathTraversal, name)
	}
	return dest, nil
}

// RootDir returns the outermost path segment of an archive entry name, so
// both "Foo/Foo/Foo.txt" and "Foo/" yield "Foo"
func RootDir(name string) string {
	p := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	for {
		parent := path.Dir(p)
		if parent == "." || parent == "/" {
			return strings.TrimPrefix(p, "/")
		}
		p = parent
	}
}

func extractFile(f *zip.File, dest string) (err error) {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(out, rc); err != nil {
		return err
	}

	if runtime.GOOS != "windows" {
		if perm := f.Mode().Perm(); perm != 0 {
			return os.Chmod(dest, (perm|0o200)&^0o022)
		}
	}
	return nil
}
