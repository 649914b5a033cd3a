package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/namastexlabs/automagik-telemetry/cli/pkg/output"
	"github.com/namastexlabs/automagik-telemetry/pkg/telemetry"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Opt in to telemetry for this machine",
	Long:  "Removes the persistent opt-out marker so clients resume environment-based consent detection.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := telemetry.OptIn(); err != nil {
			return fmt.Errorf("removing opt-out marker: %w", err)
		}
		output.Success("Telemetry opt-out marker removed.")
		output.Info("Set AUTOMAGIK_TELEMETRY_ENABLED=true to activate delivery.")
		return nil
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Opt out of telemetry for this machine",
	Long:  "Writes a persistent opt-out marker in your home directory. All clients on this machine stay disabled until you run enable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := telemetry.OptOut(); err != nil {
			return fmt.Errorf("writing opt-out marker: %w", err)
		}
		output.Success("Telemetry disabled for this machine.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
