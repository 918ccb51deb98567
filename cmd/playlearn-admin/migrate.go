package main

import (
	"github.com/neslihan-na/playlearnkids-admin/internal/config"
	"github.com/neslihan-na/playlearnkids-admin/internal/database"
	"github.com/neslihan-na/playlearnkids-admin/internal/logger"
	"github.com/neslihan-na/playlearnkids-admin/internal/store/sqlite"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the document store schema up to date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			log := logger.NewLogger(cfg.Observability)

			if cfg.Database.Driver == config.DriverPostgres {
				return database.Migrate(ctx, &log, cfg)
			}

			// sqlite migrates on open
			st, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
			if err != nil {
				return err
			}
			log.Info().Str("path", cfg.Database.SQLitePath).Msg("sqlite schema up to date")
			return st.Close()
		},
	}
}
