package main

import (
	"time"

	"github.com/spf13/cobra"
)

func (a *app) newEvaluateCmd() *cobra.Command {
	var bundlePath, eventsPath, outPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score an event set against the ten schedule-quality metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadBundle(bundlePath)
			if err != nil {
				return err
			}
			events, err := loadEvents(eventsPath)
			if err != nil {
				return err
			}

			report := a.kernel.Evaluate(bundle, events, time.Now().UTC().Format(time.RFC3339))
			a.metrics.RecordEvaluate(bundle.Season.ID, report.OverallScore)

			return writeJSON(outPath, report)
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "", "path to season bundle JSON (required)")
	cmd.Flags().StringVar(&eventsPath, "events", "", "path to scheduled-events JSON array (required)")
	cmd.Flags().StringVar(&outPath, "out", "-", "output path, or - for stdout")
	cmd.MarkFlagRequired("bundle") //nolint:errcheck
	cmd.MarkFlagRequired("events") //nolint:errcheck

	return cmd
}
