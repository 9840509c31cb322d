package cmd

import (
	"github.com/spf13/cobra"

	"rollerstone-site/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the inquiries schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := requireStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return storage.RunMigrations(cmd.Context(), store.DB(), log)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := requireStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return storage.RollbackMigration(cmd.Context(), store.DB(), log)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := requireStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return storage.Status(cmd.Context(), store.DB(), log)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}
