package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Dump the process's Prometheus metrics in text exposition format",
		RunE: func(cmd *cobra.Command, args []string) error {
			dump, err := a.metrics.Dump()
			if err != nil {
				return err
			}
			fmt.Print(dump)
			return nil
		},
	}
	return cmd
}
