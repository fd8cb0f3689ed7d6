package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"relane/internal/report"
	"relane/internal/trace"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report <run-id>",
		Short: "Show the per-lane breakdown of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := trace.Open(cfg.Trace.Dir)
			if err != nil {
				return fmt.Errorf("open trace store: %w", err)
			}
			defer func() { _ = store.Close() }()

			summary, err := store.Summary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			lanes, err := store.LaneBreakdown(cmd.Context(), summary.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s (%s)\n", summary.ID, summary.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(out, "Ticks: %s  Admitted: %s  Released: %s  Stalled ticks: %s\n",
				report.Number(summary.Ticks),
				report.Number(summary.BlocksAdmitted),
				report.Number(summary.BlocksReleased),
				report.Number(summary.Stalls))
			if !summary.Completed {
				fmt.Fprintln(out, "Run did not complete")
			}

			headers, rows := report.Lanes(lanes)
			fmt.Fprintln(out, renderCounts(headers, rows))
			return nil
		},
	}
}
