package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"fitsync/internal/pipeline"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch all sources, merge, and write dashboard artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// One sync at a time. Concurrent runs would race on the artifact
			// directory and the run journal.
			lockPath := filepath.Join(cfg.Output.Dir, ".sync.lock")
			if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
				return fmt.Errorf("ensure output directory: %w", err)
			}
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire sync lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another sync is already running (lock: %s)", lockPath)
			}
			defer func() { _ = lock.Unlock() }()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := pipeline.Run(runCtx, pipeline.Options{Config: cfg, Logger: logger})
			if err != nil {
				return err
			}

			printSummary(cmd, res)
			if res.Failed() {
				return fmt.Errorf("%d artifact(s) failed to write", len(res.ArtifactErrors))
			}
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, res *pipeline.Result) {
	out := cmd.OutOrStdout()

	contributed := make([]string, 0, len(res.Sources))
	for name, ok := range res.Sources {
		if ok {
			contributed = append(contributed, name)
		}
	}
	sort.Strings(contributed)

	rows := [][]string{
		{"Run", res.RunID},
		{"Activities", strconv.Itoa(res.ActivityCount)},
		{"Wellness days", strconv.Itoa(res.WellnessCount)},
		{"Sources", strings.Join(contributed, ", ")},
		{"Stubs suppressed", strconv.Itoa(res.MergeStats.PrimaryStubs)},
		{"Duplicates skipped", strconv.Itoa(res.MergeStats.SecondaryCovered)},
		{"Duration", res.FinishedAt.Sub(res.StartedAt).String()},
	}
	if isTerminal(out) {
		fmt.Fprintln(out, renderTable([]string{"Sync", "Value"}, rows))
	} else {
		for _, row := range rows {
			fmt.Fprintf(out, "%s: %s\n", row[0], row[1])
		}
	}

	for _, msg := range res.ArtifactErrors {
		fmt.Fprintf(out, "write failed: %s\n", msg)
	}
}
