package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/namastexlabs/automagik-telemetry/cli/pkg/output"
	"github.com/namastexlabs/automagik-telemetry/internal/seeder"
)

var (
	seedCount    int
	seedInterval time.Duration
	seedSignals  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic telemetry against the configured backend",
	Long: `Generate realistic synthetic traces, metrics, logs, and errors and send
them through a real client, exercising batching, compression, and retry
end to end.

Examples:
  # 100 mixed events to the default backend
  telemetryctl seed

  # 5000 trace and metric events to a local ClickHouse
  telemetryctl seed --backend clickhouse --count 5000 --signals trace,metric`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 100, "number of events to generate")
	seedCmd.Flags().DurationVar(&seedInterval, "interval", 0, "pause between events")
	seedCmd.Flags().StringVar(&seedSignals, "signals", "", "comma-separated signal types: trace, metric, log, error (default all)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close(cmd.Context())

	var signals []string
	if seedSignals != "" {
		for _, s := range strings.Split(seedSignals, ",") {
			if s = strings.TrimSpace(s); s != "" {
				signals = append(signals, s)
			}
		}
	}

	res, err := seeder.Run(cmd.Context(), client, seeder.Options{
		Count:    seedCount,
		Interval: seedInterval,
		Signals:  signals,
	})
	if err != nil {
		return err
	}

	if !client.Flush(cmd.Context()) {
		return fmt.Errorf("final flush failed (%d sent, %d rejected)", res.Sent, res.Failed)
	}
	output.Success("Seeding complete: %d sent, %d rejected", res.Sent, res.Failed)
	return nil
}
