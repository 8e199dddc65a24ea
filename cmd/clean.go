package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/eso-addons/internal/graph"
	"github.com/ethanolivertroy/eso-addons/internal/models"
)

var flagRemove bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "List or remove installed addons that are not in the config",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&flagRemove, "remove", false, "Delete the listed addons")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	list, err := a.manager.GetAddons()
	if err != nil {
		return err
	}

	var unmanaged []models.Addon
	for _, addon := range graph.UnmanagedAddons(a.desired.Addons, list.Addons) {
		// Nested addons go away with the addon that ships them
		if filepath.Dir(addon.Path) != a.manager.AddonDir() {
			a.logger.Debug("Skipping nested addon", "addon", addon.Name, "path", addon.Path)
			continue
		}
		unmanaged = append(unmanaged, addon)
	}

	if len(unmanaged) == 0 {
		fmt.Fprintln(out, "Nothing to clean")
		return nil
	}

	if !flagRemove {
		fmt.Fprintln(out, "Addons to remove:")
		for _, addon := range unmanaged {
			fmt.Fprintf(out, "- %s\n", addon.Name)
		}
		fmt.Fprintln(out, "\nRun with --remove to delete them.")
		return nil
	}

	for _, addon := range unmanaged {
		if err := a.manager.DeleteAddon(addon); err != nil {
			return err
		}
		fmt.Fprintf(out, "✔ %s removed!\n", addon.Name)
	}
	return nil
}
