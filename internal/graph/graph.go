// Package graph answers consistency questions about a set of installed
// addons and the user's desired configuration. Names are compared by exact
// string equality.
package graph

import (
	"sort"

	"github.com/ethanolivertroy/eso-addons/internal/models"
)

// MissingDependencies returns every dependency declared by an installed
// addon that is not itself installed, sorted by name.
func MissingDependencies(installed []models.Addon) []string {
	names := make(map[string]bool, len(installed))
	for _, a := range installed {
		names[a.Name] = true
	}

	missing := make(map[string]bool)
	for _, a := range installed {
		for _, dep := range a.DependsOn {
			if !names[dep] {
				missing[dep] = true
			}
		}
	}

	return sortedKeys(missing)
}

// Dependents maps every installed addon, and every name an installed addon
// depends on, to the installed addons depending on it. Installed addons
// nobody depends on map to an empty set.
func Dependents(installed []models.Addon) map[string]map[string]bool {
	dependents := make(map[string]map[string]bool, len(installed))
	for _, a := range installed {
		if _, ok := dependents[a.Name]; !ok {
			dependents[a.Name] = make(map[string]bool)
		}
	}
	for _, a := range installed {
		for _, dep := range a.DependsOn {
			if _, ok := dependents[dep]; !ok {
				dependents[dep] = make(map[string]bool)
			}
			dependents[dep][a.Name] = true
		}
	}
	return dependents
}

// UnusedDependencies returns installed addons that no other installed addon
// depends on, unless the desired configuration explicitly keeps them as a
// standalone (non-dependency) addon. Addons absent from the configuration
// are reported. Result is sorted by name.
func UnusedDependencies(installed []models.Addon, desired []models.DesiredEntry) []string {
	standalone := make(map[string]bool, len(desired))
	for _, e := range desired {
		if !e.Dependency {
			standalone[e.Name] = true
		}
	}

	unused := make(map[string]bool)
	for name, by := range Dependents(installed) {
		if len(by) == 0 && !standalone[name] {
			unused[name] = true
		}
	}

	return sortedKeys(unused)
}

// UnmanagedAddons returns the installed addons whose name does not appear in
// the desired configuration, in installed order.
func UnmanagedAddons(desired []models.DesiredEntry, installed []models.Addon) []models.Addon {
	names := make(map[string]bool, len(desired))
	for _, e := range desired {
		names[e.Name] = true
	}

	unmanaged := []models.Addon{}
	for _, a := range installed {
		if !names[a.Name] {
			unmanaged = append(unmanaged, a)
		}
	}
	return unmanaged
}

// BuildStatus combines a scan with the desired configuration into the
// report shown by the list command
func BuildStatus(addonDir string, list models.AddonList, desired []models.DesiredEntry) models.Status {
	status := models.Status{
		AddonDir:  addonDir,
		Desired:   make([]models.DesiredStatus, 0, len(desired)),
		Errors:    list.Errors,
		Missing:   MissingDependencies(list.Addons),
		Unused:    UnusedDependencies(list.Addons, desired),
		Unmanaged: UnmanagedAddons(desired, list.Addons),
	}

	for _, e := range desired {
		ds := models.DesiredStatus{Entry: e}
		if a, ok := list.Find(e.Name); ok {
			ds.Installed = true
			ds.Version = a.Version
		}
		status.Desired = append(status.Desired, ds)
	}

	return status
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
