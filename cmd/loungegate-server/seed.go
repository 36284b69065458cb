package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/loungegate/internal/db"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/fixture"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo members and access log into the database",
	Long: `Insert the bundled demo roster and access history into the SQLite
database. Rows that already exist are left alone, so seeding can be repeated.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg)

	if cfg.Store == "memory" {
		return fmt.Errorf("seed: the memory store is seeded at serve time; set LOUNGE_SEED_DEV instead")
	}

	f, err := fixture.Default()
	if err != nil {
		return fmt.Errorf("seed: load fixture: %w", err)
	}

	ctx := cmd.Context()
	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer conn.Close()

	if err := seedFixture(ctx, conn, f); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("seeded demo data", "path", cfg.DBPath,
		"members", len(f.Members), "access_log", len(f.AccessLog))
	return nil
}
