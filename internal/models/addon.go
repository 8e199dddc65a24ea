package models

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Addon represents a single installed addon discovered on disk
type Addon struct {
	Name      string   // Base name of the addon directory
	DependsOn []string // Bare dependency names in declaration order
	Title     string   // Value of the "## Title:" line, if any
	Version   string   // Value of the "## Version:" line, if any
	Path      string   // Absolute directory the addon was read from
}

// SemVer returns the canonical semantic version of the addon, or "" when the
// declared version is not a valid semantic version.
func (a Addon) SemVer() string {
	v := strings.TrimSpace(a.Version)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// AddonList pairs the addons that were read successfully with the
// per-addon failures met during a scan
type AddonList struct {
	Addons []Addon
	Errors []ScanError
}

// Names returns the addon names in scan order
func (l AddonList) Names() []string {
	names := make([]string, 0, len(l.Addons))
	for _, a := range l.Addons {
		names = append(names, a.Name)
	}
	return names
}

// Find returns the first addon with the given name
func (l AddonList) Find(name string) (Addon, bool) {
	for _, a := range l.Addons {
		if a.Name == name {
			return a, true
		}
	}
	return Addon{}, false
}

// CompareVersions compares the declared versions of two addons. ok is false
// when either version is not a valid semantic version.
func CompareVersions(a, b Addon) (cmp int, ok bool) {
	va, vb := a.SemVer(), b.SemVer()
	if va == "" || vb == "" {
		return 0, false
	}
	return semver.Compare(va, vb), true
}
