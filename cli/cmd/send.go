package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namastexlabs/automagik-telemetry/cli/pkg/output"
	"github.com/namastexlabs/automagik-telemetry/pkg/event"
	"github.com/namastexlabs/automagik-telemetry/pkg/telemetry"
)

var (
	sendAttrs    []string
	sendUnit     string
	sendType     string
	sendSeverity string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single test event through the configured backend",
}

var sendEventCmd = &cobra.Command{
	Use:   "event NAME",
	Short: "Send a named event (trace span)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		ok := client.TrackEvent(cmd.Context(), args[0], parseAttrs(sendAttrs))
		return reportSend(client, ok, cmd)
	},
}

var sendMetricCmd = &cobra.Command{
	Use:   "metric NAME VALUE",
	Short: "Send a single metric point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("value must be numeric: %w", err)
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		ok := client.TrackMetric(cmd.Context(), telemetry.Metric{
			Name:       args[0],
			Value:      value,
			Type:       event.MetricType(sendType),
			Unit:       sendUnit,
			Attributes: parseAttrs(sendAttrs),
		})
		return reportSend(client, ok, cmd)
	},
}

var sendLogCmd = &cobra.Command{
	Use:   "log MESSAGE",
	Short: "Send a single log record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		ok := client.TrackLog(cmd.Context(), telemetry.Log{
			Message:    args[0],
			Severity:   event.LogSeverity(strings.ToUpper(sendSeverity)),
			Attributes: parseAttrs(sendAttrs),
		})
		return reportSend(client, ok, cmd)
	},
}

func init() {
	sendCmd.PersistentFlags().StringArrayVarP(&sendAttrs, "attr", "a", nil, "attribute as key=value (repeatable)")
	sendMetricCmd.Flags().StringVar(&sendType, "type", "gauge", "metric type: gauge, counter, histogram, summary")
	sendMetricCmd.Flags().StringVar(&sendUnit, "unit", "", "metric unit, e.g. ms or By")
	sendLogCmd.Flags().StringVar(&sendSeverity, "severity", "INFO", "log severity: TRACE, DEBUG, INFO, WARN, ERROR, FATAL")

	sendCmd.AddCommand(sendEventCmd)
	sendCmd.AddCommand(sendMetricCmd)
	sendCmd.AddCommand(sendLogCmd)
	rootCmd.AddCommand(sendCmd)
}

// parseAttrs converts key=value pairs, keeping numeric and boolean values
// typed so they survive as typed OTLP attributes.
func parseAttrs(pairs []string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}
	attrs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			attrs[key] = n
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			attrs[key] = f
		} else if b, err := strconv.ParseBool(value); err == nil {
			attrs[key] = b
		} else {
			attrs[key] = value
		}
	}
	return attrs
}

func reportSend(client *telemetry.Client, accepted bool, cmd *cobra.Command) error {
	flushed := client.Flush(cmd.Context())
	if !accepted || !flushed {
		return fmt.Errorf("delivery failed (accepted=%t flushed=%t)", accepted, flushed)
	}
	output.Success("Delivered.")
	return nil
}
