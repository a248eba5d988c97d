package main

import (
	"fmt"
	"os"

	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/bootstrap"
	"github.com/bizlink/alliance/internal/seed"
	"github.com/spf13/cobra"
)

var importUsersCmd = &cobra.Command{
	Use:     "import-users <file.json>",
	Short:   "Create accounts and profiles from an exported users file",
	Example: "bizlink import-users ./users.json",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open users file: %w", err)
		}
		defer f.Close()

		pool, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer pool.Close()

		importer := seed.NewUserImporter(
			repositories.NewAccountRepository(pool),
			repositories.NewProfileRepository(pool),
			lgr.With().Str("component", "import-users").Logger(),
		)

		res, err := importer.Import(ctx, f)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Done. Created: %d, Skipped: %d, Profile errors: %d\n",
			res.Created, res.Skipped, res.ProfileErrors)
		return nil
	},
}
