package reporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ethanolivertroy/eso-addons/internal/models"
)

// TerminalReporter outputs the status in a human-readable terminal format
type TerminalReporter struct {
	ok      lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	heading lipgloss.Style
	faint   lipgloss.Style
}

// NewTerminalReporter creates a TerminalReporter; noColor disables styling
func NewTerminalReporter(noColor bool) *TerminalReporter {
	if noColor {
		plain := lipgloss.NewStyle()
		return &TerminalReporter{ok: plain, warn: plain, bad: plain, heading: plain, faint: plain}
	}
	return &TerminalReporter{
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		heading: lipgloss.NewStyle().Bold(true),
		faint:   lipgloss.NewStyle().Faint(true),
	}
}

func (r *TerminalReporter) section(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n" + r.heading.Render(title) + "\n")
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
}

// Report generates terminal output for the given status
func (r *TerminalReporter) Report(status models.Status) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(r.faint.Render("Addon directory: "+status.AddonDir) + "\n\n")

	if len(status.Desired) == 0 {
		sb.WriteString("No addons configured.\n")
	}
	for _, d := range status.Desired {
		name := d.Entry.Name
		if d.Entry.Dependency {
			name += r.faint.Render(" (dependency)")
		}
		if d.Installed {
			line := r.ok.Render("✔") + " " + name + " is installed"
			if d.Version != "" {
				line += r.faint.Render(" " + d.Version)
			}
			sb.WriteString(line + "\n")
		} else {
			sb.WriteString(r.warn.Render("⚠") + " " + name + " is not installed\n")
		}
	}

	errs := make([]string, 0, len(status.Errors))
	for _, e := range status.Errors {
		errs = append(errs, r.bad.Render(fmt.Sprintf("%s: %v", e.Path, e.Err)))
	}
	r.section(&sb, "Addons that could not be read:", errs)
	r.section(&sb, "There are missing dependencies:", status.Missing)
	r.section(&sb, "There are unused dependencies:", status.Unused)

	unmanaged := make([]string, 0, len(status.Unmanaged))
	for _, a := range status.Unmanaged {
		unmanaged = append(unmanaged, a.Name)
	}
	r.section(&sb, "Installed addons not in the config:", unmanaged)

	if status.IsClean() {
		sb.WriteString("\n" + r.ok.Render("Everything is up to date.") + "\n")
	}

	return []byte(sb.String()), nil
}
