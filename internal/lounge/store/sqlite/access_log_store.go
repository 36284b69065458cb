package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/loungegate/internal/db"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

type AccessLogStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAccessLogStore(db *sql.DB, writer *dbpkg.Worker) *AccessLogStore {
	return &AccessLogStore{db: db, writer: writer}
}

func (s *AccessLogStore) Append(ctx context.Context, e types.AccessLogEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if !e.Outcome.Valid() {
		return fmt.Errorf("Append: invalid outcome %q", e.Outcome)
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_log(
  entry_id, member_id, member_name, tier, occurred_at_ms,
  outcome, confidence, photo_url
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`,
			e.ID, e.MemberID, e.MemberName, e.Tier, e.Timestamp.UTC().UnixMilli(),
			string(e.Outcome), e.Confidence, e.PhotoURL,
		); err != nil {
			return fmt.Errorf("Append insert: %w", err)
		}
		return nil
	})
}

func (s *AccessLogStore) List(ctx context.Context, limit int) ([]types.AccessLogEntry, error) {
	q := `
SELECT entry_id, member_id, member_name, tier, occurred_at_ms, outcome, confidence, photo_url
FROM access_log
ORDER BY occurred_at_ms DESC, seq DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q+";", args...)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []types.AccessLogEntry
	for rows.Next() {
		var (
			e       types.AccessLogEntry
			atMs    int64
			outcome string
		)
		if err := rows.Scan(&e.ID, &e.MemberID, &e.MemberName, &e.Tier, &atMs, &outcome, &e.Confidence, &e.PhotoURL); err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		e.Timestamp = time.UnixMilli(atMs).UTC()
		e.Outcome = types.AccessOutcome(outcome)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List rows: %w", err)
	}
	return out, nil
}

// PruneOlderThan deletes entries that occurred before cutoff and returns
// the number of rows removed. Uses idx_access_log_time for the range scan.
func (s *AccessLogStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM access_log
WHERE occurred_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
