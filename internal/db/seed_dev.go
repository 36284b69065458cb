package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

type SeedDevOptions struct {
	Members   []types.Member
	AccessLog []types.AccessLogEntry
}

// SeedDev inserts the given demo rows. Rows whose IDs already exist are
// left alone, so seeding is safe to repeat.
func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	now := time.Now().UTC().UnixMilli()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, m := range opt.Members {
		var lastAccess any
		if m.LastAccess != nil {
			lastAccess = m.LastAccess.UTC().UnixMilli()
		}
		// Keep fixture order stable for List by spacing created_at_ms.
		created := now + int64(i)
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO members(
  member_id, name, email, tier, member_since, flights,
  photo_url, passport_number, nationality, last_access_ms, status,
  created_at_ms, updated_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			m.ID, m.Name, m.Email, string(m.Tier), m.MemberSince, m.Flights,
			m.PhotoURL, m.PassportNumber, m.Nationality, lastAccess, string(m.Status),
			created, created,
		); err != nil {
			return fmt.Errorf("seed member %s: %w", m.ID, err)
		}
	}

	for _, e := range opt.AccessLog {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO access_log(
  entry_id, member_id, member_name, tier, occurred_at_ms,
  outcome, confidence, photo_url
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
			e.ID, e.MemberID, e.MemberName, e.Tier, e.Timestamp.UTC().UnixMilli(),
			string(e.Outcome), e.Confidence, e.PhotoURL,
		); err != nil {
			return fmt.Errorf("seed access_log %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	return nil
}
