package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyjia/invoice-dashboard/internal/container"
	"github.com/garyjia/invoice-dashboard/migrations"
	"github.com/garyjia/invoice-dashboard/pkg/database"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			dbCfg := cfg.ToContainerConfig().Database
			dbCfg.AutoMigrate = false

			db, err := container.ProvideDatabase(cmd.Context(), &dbCfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.NewMigrator(db, logger).Run(cmd.Context(), migrations.FS)
			if err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}
}
