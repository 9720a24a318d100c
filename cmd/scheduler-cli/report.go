package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/ll-scheduler-kernel/pkg/report"
)

func (a *app) newReportCmd() *cobra.Command {
	var bundlePath, eventsPath, outPath, title string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a schedule evaluation as a PDF scorecard",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadBundle(bundlePath)
			if err != nil {
				return err
			}
			events, err := loadEvents(eventsPath)
			if err != nil {
				return err
			}

			rpt := a.kernel.Evaluate(bundle, events, time.Now().UTC().Format(time.RFC3339))

			if title == "" {
				title = a.cfg.Report.Title
			}
			pdf, err := report.NewPDFRenderer().Render(rpt, title)
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}

			if outPath == "" || outPath == "-" {
				_, err = os.Stdout.Write(pdf)
				return err
			}
			return os.WriteFile(outPath, pdf, 0o644)
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "", "path to season bundle JSON (required)")
	cmd.Flags().StringVar(&eventsPath, "events", "", "path to scheduled-events JSON array (required)")
	cmd.Flags().StringVar(&outPath, "out", "report.pdf", "output PDF path, or - for stdout")
	cmd.Flags().StringVar(&title, "title", "", "report title (defaults to config SCHEDULER_REPORT_TITLE)")
	cmd.MarkFlagRequired("bundle") //nolint:errcheck
	cmd.MarkFlagRequired("events") //nolint:errcheck

	return cmd
}
