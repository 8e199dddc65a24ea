package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTTL is how long a fetched page stays fresh
const DefaultTTL = time.Hour

const suffix = ".page"

// Cache stores fetched addon pages on disk, keyed by URL
type Cache struct {
	Dir string
	TTL time.Duration
}

// DefaultDir returns ~/.cache/<appName>
func DefaultDir(appName string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cache", appName), nil
}

// New creates a cache rooted at dir, creating the directory if needed
func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{Dir: dir, TTL: ttl}, nil
}

// Path returns the file a key is stored in
func (c *Cache) Path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.Dir, hex.EncodeToString(hash[:16])+suffix)
}

// Get returns the cached data for key when present and not expired
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.Path(key)

	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.TTL {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data for key
func (c *Cache) Set(key string, data []byte) error {
	tmp, err := os.CreateTemp(c.Dir, "tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.Path(key))
}

// Clear removes all cached pages and returns how many were deleted
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		if err := os.Remove(filepath.Join(c.Dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
