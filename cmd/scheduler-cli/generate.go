package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) newGenerateCmd() *cobra.Command {
	var bundlePath, outPath string
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the Placement Engine over a season bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadBundle(bundlePath)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = a.cfg.Generator.DefaultSeed
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			start := time.Now()
			result := a.kernel.Generate(bundle, seed, ctx.Done())
			a.metrics.RecordGenerate(bundle.Season.ID, time.Since(start), len(result.Events), len(result.Warnings), result.Cancelled)

			return writeJSON(outPath, result)
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "", "path to season bundle JSON (required)")
	cmd.Flags().StringVar(&outPath, "out", "-", "output path, or - for stdout")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (defaults to config SCHEDULER_SEED)")
	cmd.MarkFlagRequired("bundle") //nolint:errcheck

	return cmd
}
