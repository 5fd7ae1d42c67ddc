package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/config"
)

const defaultConfigPath = "configs/config.yaml"

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "hrdash",
		Short:         "HR dashboard server",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare invocation serves, matching the old flag-only binary.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to configuration file")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	cmd.AddCommand(newSeedCmd(&configPath))
	return cmd
}

// openDatabase loads the config and opens its database for one-shot commands.
// cleanup closes the database and the logger.
func openDatabase(configPath string) (*gorm.DB, *slog.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		_ = log.Close()
		return nil, nil, nil, fmt.Errorf("setup database: %w", err)
	}
	cleanup := func() {
		if err := config.CloseDatabase(db); err != nil {
			log.Error("database close error", slog.Any("error", err))
		}
		_ = log.Close()
	}
	return db, log.Logger, cleanup, nil
}
