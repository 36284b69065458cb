package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	GRPCAddr string // empty disables the health server

	// Storage
	Env     string // "dev" | "prod"
	Store   string // "sqlite" | "memory"
	DBPath  string // e.g. "./data/lounge.db"
	SeedDev bool   // load the demo fixture on start

	LogLevel    string
	CORSOrigins []string

	// Workflow sessions
	SessionTTL      time.Duration
	SessionCapacity int
	RandSeed        uint64 // 0 = random per session

	// Access log retention
	AccessLogRetentionDays int // 0 = keep forever
	PruneIntervalHours     int
}

// FromEnv reads LOUNGE_* variables from the process environment.
func FromEnv() Config {
	return Load(os.Getenv)
}

// Load builds a Config from getenv, falling back to defaults for unset or
// malformed values.
func Load(getenv func(string) string) Config {
	env := strings.ToLower(getenvDefault(getenv, "LOUNGE_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	store := strings.ToLower(getenvDefault(getenv, "LOUNGE_STORE", "sqlite"))
	if store != "sqlite" && store != "memory" {
		store = "sqlite"
	}

	seedDev := env == "dev"
	if v := strings.TrimSpace(getenv("LOUNGE_SEED_DEV")); v != "" {
		seedDev = parseBool(v)
	}

	origins := splitCSV(getenv("LOUNGE_CORS_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return Config{
		HTTPAddr: getenvDefault(getenv, "LOUNGE_HTTP_ADDR", ":8080"),
		GRPCAddr: strings.TrimSpace(getenv("LOUNGE_GRPC_ADDR")),

		Env:     env,
		Store:   store,
		DBPath:  getenvDefault(getenv, "LOUNGE_DB_PATH", "./data/lounge.db"),
		SeedDev: seedDev,

		LogLevel:    getenvDefault(getenv, "LOUNGE_LOG_LEVEL", "info"),
		CORSOrigins: origins,

		SessionTTL:      time.Duration(getenvInt(getenv, "LOUNGE_SESSION_TTL_MINUTES", 30)) * time.Minute,
		SessionCapacity: getenvInt(getenv, "LOUNGE_SESSION_CAPACITY", 256),
		RandSeed:        uint64(getenvInt(getenv, "LOUNGE_RAND_SEED", 0)),

		AccessLogRetentionDays: getenvInt(getenv, "LOUNGE_ACCESS_LOG_RETENTION_DAYS", 90),
		PruneIntervalHours:     getenvInt(getenv, "LOUNGE_PRUNE_INTERVAL_HOURS", 6),
	}
}

func getenvDefault(getenv func(string) string, key, def string) string {
	v := getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func getenvInt(getenv func(string) string, key string, def int) int {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func splitCSV(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
