package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/eso-addons/internal/reporter"
)

var flagFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show configured addons, missing and unused dependencies",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagFormat, "format", "f", "terminal", "Output format: terminal, json")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	status, err := a.manager.Status(a.desired.Addons)
	if err != nil {
		return err
	}

	output, err := reporter.Get(flagFormat, a.cfg.NoColor).Report(status)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(output)
	return err
}
