package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/ll-scheduler-kernel/internal/kernel"
	"github.com/noah-isme/ll-scheduler-kernel/pkg/config"
	"github.com/noah-isme/ll-scheduler-kernel/pkg/logger"
	"github.com/noah-isme/ll-scheduler-kernel/pkg/metrics"
)

// app bundles the dependencies every subcommand needs, wired once in
// main and threaded through via closures rather than package globals.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	kernel  *kernel.Kernel
	metrics *metrics.Collector
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync() //nolint:errcheck

	a := &app{
		cfg:     cfg,
		logger:  logr,
		kernel:  kernel.New(nil, logr),
		metrics: metrics.New(),
	}

	root := &cobra.Command{
		Use:   "scheduler-cli",
		Short: "Little League season scheduling kernel",
	}

	root.AddCommand(
		a.newGenerateCmd(),
		a.newEvaluateCmd(),
		a.newCompareCmd(),
		a.newBatchCmd(),
		a.newReportCmd(),
		a.newMetricsCmd(),
	)

	if err := root.Execute(); err != nil {
		a.logger.Sugar().Errorw("command failed", "error", err)
		os.Exit(1)
	}
}
