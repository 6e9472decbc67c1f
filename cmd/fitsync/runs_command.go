package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"fitsync/internal/runlog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent sync runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := ctx.ensure()
			if err != nil {
				return err
			}
			if cfg.Output.RunLogPath == "" {
				return fmt.Errorf("run journal disabled (output.runlog_path is empty)")
			}

			store, err := runlog.Open(cfg.Output.RunLogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.StartedAt.Local().Format(time.DateTime),
					r.Status,
					strconv.Itoa(r.Activities),
					strconv.Itoa(r.Wellness),
					r.Sources,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Started", "Status", "Activities", "Wellness", "Sources"},
				rows, 2, 3))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
