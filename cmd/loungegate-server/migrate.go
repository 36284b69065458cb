package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/loungegate/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("dry-run", false, "List pending migrations without applying them")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg)
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx := cmd.Context()
	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env, SkipMigrate: true})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer conn.Close()

	pending, err := db.Pending(ctx, conn)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if len(pending) == 0 {
		fmt.Println("schema is up to date")
		return nil
	}
	for _, name := range pending {
		fmt.Printf("pending: %s\n", name)
	}
	if dryRun {
		return nil
	}

	if err := db.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied", "path", cfg.DBPath, "count", len(pending))
	return nil
}
