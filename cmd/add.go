package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/eso-addons/internal/clients"
	"github.com/ethanolivertroy/eso-addons/internal/config"
	"github.com/ethanolivertroy/eso-addons/internal/models"
)

var flagDependency bool

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Install an addon from its esoui.com page and add it to the config",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().BoolVarP(&flagDependency, "dependency", "d", false, "Mark the addon as only a dependency of another addon")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	url := args[0]
	if dl, ok := clients.DownloadPageURL(url); ok {
		url = dl
	}

	if idx := config.FindByURL(a.desired, url); idx >= 0 {
		fmt.Fprintf(out, "Addon %s is already installed\n", a.desired.Addons[idx].Name)
		return nil
	}

	installed, err := a.manager.DownloadAddon(cmd.Context(), url)
	if err != nil {
		return err
	}

	entry := models.DesiredEntry{Name: installed.Name, URL: url, Dependency: flagDependency}
	if idx := config.FindByName(a.desired, installed.Name); idx >= 0 {
		a.desired.Addons[idx] = entry
	} else {
		a.desired.Addons = append(a.desired.Addons, entry)
	}

	if err := a.saveConfig(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Installed %s!\n", installed.Name)
	return nil
}
