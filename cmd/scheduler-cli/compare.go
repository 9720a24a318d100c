package main

import (
	"time"

	"github.com/spf13/cobra"
)

func (a *app) newCompareCmd() *cobra.Command {
	var bundlePath, eventsAPath, eventsBPath, outPath string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two event sets metric-by-metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadBundle(bundlePath)
			if err != nil {
				return err
			}
			eventsA, err := loadEvents(eventsAPath)
			if err != nil {
				return err
			}
			eventsB, err := loadEvents(eventsBPath)
			if err != nil {
				return err
			}

			comparison := a.kernel.Compare(bundle, eventsA, eventsB, time.Now().UTC().Format(time.RFC3339))
			return writeJSON(outPath, comparison)
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "", "path to season bundle JSON (required)")
	cmd.Flags().StringVar(&eventsAPath, "before", "", "path to the 'before' scheduled-events JSON array (required)")
	cmd.Flags().StringVar(&eventsBPath, "after", "", "path to the 'after' scheduled-events JSON array (required)")
	cmd.Flags().StringVar(&outPath, "out", "-", "output path, or - for stdout")
	cmd.MarkFlagRequired("bundle") //nolint:errcheck
	cmd.MarkFlagRequired("before") //nolint:errcheck
	cmd.MarkFlagRequired("after")  //nolint:errcheck

	return cmd
}
