package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noah-isme/ll-scheduler-kernel/pkg/batch"
)

// manifestEntry names one bundle file within a batch manifest.
type manifestEntry struct {
	ID         string `json:"id"`
	BundlePath string `json:"bundlePath"`
	Seed       int64  `json:"seed"`
}

func (a *app) newBatchCmd() *cobra.Command {
	var manifestPath, outPath string
	var workers int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run Generate over every bundle named in a manifest, concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}

			requests := make([]batch.Request, 0, len(entries))
			for _, entry := range entries {
				bundle, err := loadBundle(entry.BundlePath)
				if err != nil {
					return err
				}
				requests = append(requests, batch.Request{ID: entry.ID, Bundle: bundle, RNGSeed: entry.Seed})
			}

			if workers <= 0 {
				workers = a.cfg.Batch.Concurrency
			}
			runner := batch.NewRunner(a.kernel, batch.RunnerConfig{Workers: workers, Logger: a.logger})

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			outcomes := runner.Run(ctx, requests)
			return writeJSON(outPath, outcomes)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to a batch manifest JSON array (required)")
	cmd.Flags().StringVar(&outPath, "out", "-", "output path, or - for stdout")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker concurrency (defaults to config SCHEDULER_BATCH_CONCURRENCY)")
	cmd.MarkFlagRequired("manifest") //nolint:errcheck

	return cmd
}

func loadManifest(path string) ([]manifestEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var entries []manifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return entries, nil
}
