package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/prompt-generator/internal/db"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the session table for SQL session stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.SQLStore() {
				a.logger.Info("nothing to migrate", zap.String("session_store", a.cfg.Session.Store))
				return nil
			}

			database, err := db.New(a.cfg.DB.Driver, a.cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, a.cfg.DB.Driver); err != nil {
				return err
			}

			a.logger.Info("migrations complete", zap.String("driver", a.cfg.DB.Driver))
			return nil
		},
	}
}
