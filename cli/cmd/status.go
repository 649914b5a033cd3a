package cmd

import (
	"github.com/spf13/cobra"

	"github.com/namastexlabs/automagik-telemetry/pkg/telemetry"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the resolved telemetry configuration and consent state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	// Build without forcing consent so the reported state reflects what a
	// host application would actually see.
	client, err := telemetry.New(telemetry.Config{
		ProjectName:    projectName,
		ProjectVersion: projectVersion,
		Backend:        backendName,
		Endpoint:       endpoint,
		ConfigFile:     cfgFile,
		Verbose:        verbose,
	})
	if err != nil {
		return err
	}
	defer client.Close(cmd.Context())

	return printOut(client.Status())
}
