package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/loungegate/internal/config"
	"github.com/BrandonDHaskell/loungegate/internal/logging"
)

var (
	logLevel  string
	storeKind string
	dbPath    string
)

var rootCmd = &cobra.Command{
	Use:   "loungegate-server",
	Short: "Premium lounge access-control kiosk server",
	Long: `loungegate-server runs the lounge kiosk backend: member enrollment and
face-scan recognition sessions, the member directory and the access log.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOUNGE_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Storage backend: sqlite or memory (overrides LOUNGE_STORE)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides LOUNGE_DB_PATH)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig() config.Config {
	cfg := config.FromEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if storeKind != "" {
		cfg.Store = storeKind
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	logger := logging.Setup(os.Stdout, level)
	if err != nil {
		logger.Warn("falling back to info logging", logging.ErrAttr(err))
	}
	return logger
}
