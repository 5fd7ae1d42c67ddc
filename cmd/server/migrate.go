package main

import (
	"github.com/spf13/cobra"

	"github.com/simp-lee/hrdash/internal/config"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, log, cleanup, err := openDatabase(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()
			return config.Migrate(cmd.Context(), db, log)
		},
	}
}
