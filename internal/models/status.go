package models

// DesiredStatus reports whether a configured addon is present on disk
type DesiredStatus struct {
	Entry     DesiredEntry
	Installed bool
	Version   string
}

// Status is everything the list command reports about an addon directory
type Status struct {
	AddonDir  string
	Desired   []DesiredStatus
	Errors    []ScanError
	Missing   []string
	Unused    []string
	Unmanaged []Addon
}

// IsClean returns true when nothing needs the user's attention
func (s Status) IsClean() bool {
	if len(s.Errors) > 0 || len(s.Missing) > 0 || len(s.Unused) > 0 || len(s.Unmanaged) > 0 {
		return false
	}
	for _, d := range s.Desired {
		if !d.Installed {
			return false
		}
	}
	return true
}
