package cmd

import (
	"codex_backend/pkg/database"
	"codex_backend/pkg/logger"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitLogger(opts.cfg)
			defer logger.Log.Sync()

			db, err := database.InitDB(&opts.cfg.Database, true)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			logger.Log.Info("Database migration finished", zap.String("driver", opts.cfg.Database.Driver))
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		},
	}
}
