package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/namastexlabs/automagik-telemetry/cli/pkg/output"
	"github.com/namastexlabs/automagik-telemetry/pkg/telemetry"
)

var (
	cfgFile        string
	backendName    string
	projectName    string
	projectVersion string
	endpoint       string
	verbose        bool
	outputFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "telemetryctl",
	Short: "Automagik telemetry CLI",
	Long: `telemetryctl manages the Automagik telemetry client from the terminal.

Inspect the resolved configuration and consent state, opt in or out
persistently, send individual test events, and seed a backend with
synthetic data.`,
	Version: "0.2.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./telemetry.yaml, /etc/automagik/telemetry.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "delivery backend: otlp, clickhouse, opensearch")
	rootCmd.PersistentFlags().StringVar(&projectName, "project", "telemetryctl", "project name attached to events")
	rootCmd.PersistentFlags().StringVar(&projectVersion, "project-version", "0.2.0", "project version attached to events")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "override the primary delivery endpoint")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json, yaml")
}

// newClient builds a client from the shared flags. Consent is forced on:
// running a telemetryctl command is itself an explicit request to send.
func newClient() (*telemetry.Client, error) {
	return telemetry.New(telemetry.Config{
		ProjectName:    projectName,
		ProjectVersion: projectVersion,
		Backend:        backendName,
		Endpoint:       endpoint,
		ConfigFile:     cfgFile,
		Verbose:        verbose,
		Enabled:        telemetry.Bool(true),
	})
}

// printOut renders v according to the --output flag. The text fallback is
// yaml, which reads well enough on a terminal.
func printOut(v any) error {
	switch outputFormat {
	case "json":
		return output.JSON(v)
	case "yaml", "text":
		return output.YAML(v)
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}
