package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compeers-ai/market-harvest/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent harvest runs from the run log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Path == "" {
			return fmt.Errorf("runs: no run log configured (set store.path)")
		}

		runLog, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("runs: %w", err)
		}
		defer runLog.Close() //nolint:errcheck

		recs, err := runLog.Recent(cmd.Context(), runsLimit)
		if err != nil {
			return fmt.Errorf("runs: %w", err)
		}

		for _, r := range recs {
			status := "ok"
			if r.Error != "" {
				status = "failed: " + r.Error
			}
			fmt.Printf("%s  %s  uploads=%s company=%q metrics=%d citations=%d  %s\n",
				r.StartedAt.Format("2006-01-02 15:04:05"), r.ID[:8],
				r.UploadDir, r.Company, r.Metrics, r.Citations, status)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
