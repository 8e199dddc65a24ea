package parsers

import (
	"bufio"
	"io"
	"strings"

	"github.com/ethanolivertroy/eso-addons/internal/models"
)

// Directive prefixes recognised in an addon manifest
const (
	dependsOnPrefix = "## DependsOn:"
	titlePrefix     = "## Title:"
	versionPrefix   = "## Version:"
)

// ManifestNames returns the manifest file names an addon directory may hold,
// preferred name first. The second name is omitted when it equals the first.
func ManifestNames(dirName string) []string {
	exact := dirName + ".txt"
	lower := strings.ToLower(dirName) + ".txt"
	if lower == exact {
		return []string{exact}
	}
	return []string{exact, lower}
}

// Parse reads an addon manifest line by line. Only the first occurrence of
// each directive is honoured.
func Parse(name string, r io.Reader) (models.Addon, error) {
	addon := models.Addon{Name: name, DependsOn: []string{}}

	var seenDeps, seenTitle, seenVersion bool
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")

		switch {
		case !seenDeps && strings.HasPrefix(line, dependsOnPrefix):
			seenDeps = true
			addon.DependsOn = ParseDependsOn(strings.TrimPrefix(line, dependsOnPrefix))
		case !seenTitle && strings.HasPrefix(line, titlePrefix):
			seenTitle = true
			addon.Title = strings.TrimSpace(strings.TrimPrefix(line, titlePrefix))
		case !seenVersion && strings.HasPrefix(line, versionPrefix):
			seenVersion = true
			addon.Version = strings.TrimSpace(strings.TrimPrefix(line, versionPrefix))
		}
	}
	if err := sc.Err(); err != nil {
		return models.Addon{}, err
	}

	return addon, nil
}

// ParseDependsOn splits the value of a DependsOn line into bare dependency
// names. Order and duplicates are preserved; empty tokens are dropped.
func ParseDependsOn(rest string) []string {
	deps := []string{}
	for _, token := range strings.Split(strings.TrimSpace(rest), " ") {
		if name := StripConstraint(token); name != "" {
			deps = append(deps, name)
		}
	}
	return deps
}

// StripConstraint removes a version constraint from a dependency token:
// everything from the first '<', '=' or '>' onwards.
func StripConstraint(token string) string {
	if idx := strings.IndexAny(token, "<=>"); idx >= 0 {
		return token[:idx]
	}
	return token
}
