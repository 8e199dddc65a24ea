package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/eso-addons/internal/models"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reinstall every configured addon from its page",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, entry := range a.desired.Addons {
		if entry.URL == "" {
			_, ok, err := a.manager.GetAddon(entry.Name)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "⚠ %s is set to be manually installed, but not present\n", entry.Name)
			}
			continue
		}

		previous, hadPrevious, err := a.manager.GetAddon(entry.Name)
		if err != nil {
			return err
		}

		installed, err := a.manager.DownloadAddon(cmd.Context(), entry.URL)
		if err != nil {
			return fmt.Errorf("while downloading %s: %w", entry.Name, err)
		}

		if installed.Name != entry.Name {
			fmt.Fprintf(out, "⚠ Installed %s, but it is called %s in the config file. Verify the addon name in the config file.\n",
				installed.Name, entry.Name)
			continue
		}
		fmt.Fprintf(out, "✔ Installed %s%s\n", installed.Name, versionNote(previous, installed, hadPrevious))
	}

	status, err := a.manager.Status(a.desired.Addons)
	if err != nil {
		return err
	}
	printList(out, "\n⚠ There are missing dependencies! Please install the following addons to resolve the dependencies:", status.Missing)
	printList(out, "\nThere are unused dependencies:", status.Unused)
	return nil
}

// versionNote describes how an addon's version moved during an update
func versionNote(previous, installed models.Addon, hadPrevious bool) string {
	if !hadPrevious || installed.Version == "" {
		return ""
	}
	cmp, ok := models.CompareVersions(previous, installed)
	switch {
	case !ok && previous.Version != installed.Version:
		return fmt.Sprintf(" (%s -> %s)", previous.Version, installed.Version)
	case !ok, cmp == 0:
		return " (unchanged)"
	case cmp < 0:
		return fmt.Sprintf(" (upgraded %s -> %s)", previous.Version, installed.Version)
	default:
		return fmt.Sprintf(" (downgraded %s -> %s)", previous.Version, installed.Version)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", item)
	}
}
