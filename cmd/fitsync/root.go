package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fitsync/internal/config"
	"fitsync/internal/logging"
)

// commandContext carries lazily-loaded configuration and the logger between
// commands.
type commandContext struct {
	configFlag *string
	cfg        *config.Config
	logger     *slog.Logger
}

func (c *commandContext) ensure() (*config.Config, *slog.Logger, error) {
	if c.cfg != nil {
		return c.cfg, c.logger, nil
	}
	cfg, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, fmt.Errorf("configure logging: %w", err)
	}
	c.cfg = cfg
	c.logger = logger
	return cfg, logger, nil
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := &commandContext{configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "fitsync",
		Short:         "Collect training data from multiple platforms into dashboard artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "fitsync.toml", "Configuration file path")

	rootCmd.AddCommand(newSyncCommand(ctx))
	rootCmd.AddCommand(newRunsCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
