package manager

import "fmt"

// State is a step of DownloadAddon
type State int

const (
	StateIdle State = iota
	StateFetching
	StateLinkResolved
	StateDownloading
	StateExtracting
	StateRescanning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateLinkResolved:
		return "link resolved"
	case StateDownloading:
		return "downloading"
	case StateExtracting:
		return "extracting"
	case StateRescanning:
		return "rescanning"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// InstallError reports a failed DownloadAddon together with the state it
// failed in
type InstallError struct {
	URL   string
	State State
	Err   error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("failed to install %s (%s): %v", e.URL, e.State, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}
