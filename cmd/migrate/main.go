// migrate applies or rolls back the embedded SQL migrations.
package main

import (
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/config"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/db/migrate"
)

func main() {
	if err := newMigrateCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newMigrateCmd() *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Run database migrations",
		Long:         `Apply (up) or roll back (down) every embedded migration against DATABASE_URL. Being already at the target version is success.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			if cfg.DatabaseURL == "" {
				return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
			}
			if err := migrate.Run(cfg.DatabaseURL, direction); err != nil {
				return oops.Code("MIGRATION_FAILED").With("direction", direction).Wrap(err)
			}
			cmd.Printf("Migrations %s completed\n", direction)
			return nil
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "up", "migration direction: up or down")
	return cmd
}
