package main

import (
	"github.com/bizlink/alliance/internal/bootstrap"
	"github.com/bizlink/alliance/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}

		pool, err := db.NewPostgresPool(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer pool.Close()

		return bootstrap.RunMigrations(ctx, pool, lgr)
	},
}
