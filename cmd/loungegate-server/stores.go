package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/BrandonDHaskell/loungegate/internal/config"
	"github.com/BrandonDHaskell/loungegate/internal/db"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/fixture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store/memory"
	sqlitestore "github.com/BrandonDHaskell/loungegate/internal/lounge/store/sqlite"
)

type stores struct {
	members   store.MemberStore
	accessLog store.AccessLogStore
	close     func()
}

// openStores builds the configured backend. The demo fixture is loaded
// when cfg.SeedDev is set.
func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	var seed fixture.Fixture
	if cfg.SeedDev {
		f, err := fixture.Default()
		if err != nil {
			return stores{}, fmt.Errorf("load fixture: %w", err)
		}
		seed = f
	}

	if cfg.Store == "memory" {
		logger.Info("using in-memory store", "seeded", cfg.SeedDev)
		return stores{
			members:   memory.NewMemberStore(seed.Members),
			accessLog: memory.NewAccessLogStore(seed.AccessLog),
			close:     func() {},
		}, nil
	}

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return stores{}, err
	}
	if cfg.SeedDev {
		if err := seedFixture(ctx, conn, seed); err != nil {
			_ = conn.Close()
			return stores{}, err
		}
	}
	logger.Info("using sqlite store", "path", cfg.DBPath, "seeded", cfg.SeedDev)

	writer := db.NewWorker(conn)
	return stores{
		members:   sqlitestore.NewMemberStore(conn, writer),
		accessLog: sqlitestore.NewAccessLogStore(conn, writer),
		close: func() {
			writer.Close()
			_ = conn.Close()
		},
	}, nil
}

func seedFixture(ctx context.Context, conn *sql.DB, f fixture.Fixture) error {
	return db.SeedDev(ctx, conn, db.SeedDevOptions{
		Members:   f.Members,
		AccessLog: f.AccessLog,
	})
}
