package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/eso-addons/internal/config"
)

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Uninstall an addon and remove it from the config",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	entry, err := config.Remove(a.desired, args[0])
	if err != nil {
		return err
	}

	addon, ok, err := a.manager.GetAddon(entry.Name)
	if err != nil {
		return err
	}
	if ok {
		if err := a.manager.DeleteAddon(addon); err != nil {
			return err
		}
	}

	if err := a.saveConfig(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uninstalled %s!\n", entry.Name)
	return nil
}
