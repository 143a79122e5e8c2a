package cli

import (
	"github.com/spf13/cobra"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/postgres"
)

// newMigrateCommand applies pending schema migrations and exits.
func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}

			conn, err := postgres.NewConnection(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			if dir == "" {
				dir = cfg.Database.MigrationPath
			}
			if dir == "" {
				dir = "migrations"
			}
			return conn.RunMigrations(dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to database.migration_path)")
	return cmd
}
