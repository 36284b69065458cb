package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/BrandonDHaskell/loungegate/internal/db"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

const memberColumns = `member_id, name, email, tier, member_since, flights,
  photo_url, passport_number, nationality, last_access_ms, status`

type MemberStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewMemberStore(db *sql.DB, writer *dbpkg.Worker) *MemberStore {
	return &MemberStore{db: db, writer: writer}
}

func (s *MemberStore) List(ctx context.Context) ([]types.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+memberColumns+`
FROM members
ORDER BY created_at_ms, rowid;
`)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []types.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List rows: %w", err)
	}
	return out, nil
}

func (s *MemberStore) Get(ctx context.Context, id string) (types.Member, error) {
	id = strings.TrimSpace(id)
	row := s.db.QueryRowContext(ctx, `
SELECT `+memberColumns+`
FROM members
WHERE member_id = ?;
`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Member{}, store.ErrNotFound
	}
	if err != nil {
		return types.Member{}, fmt.Errorf("Get query: %w", err)
	}
	return m, nil
}

func (s *MemberStore) Create(ctx context.Context, m types.Member) (types.Member, error) {
	if !m.Tier.Valid() {
		return types.Member{}, types.ErrInvalidTier
	}
	if m.Status == "" {
		m.Status = types.StatusActive
	}
	nowMs := time.Now().UTC().UnixMilli()

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO members(
  member_id, name, email, tier, member_since, flights,
  photo_url, passport_number, nationality, last_access_ms, status,
  created_at_ms, updated_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			m.ID, m.Name, m.Email, string(m.Tier), m.MemberSince, m.Flights,
			m.PhotoURL, m.PassportNumber, m.Nationality, nullableMs(m.LastAccess), string(m.Status),
			nowMs, nowMs,
		)
		if err != nil {
			return fmt.Errorf("Create insert: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrDuplicateID
		}
		return nil
	})
	if err != nil {
		return types.Member{}, err
	}
	return m, nil
}

func (s *MemberStore) Update(ctx context.Context, id string, patch types.MemberPatch) error {
	id = strings.TrimSpace(id)
	nowMs := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM members WHERE member_id = ?;`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("Update lookup: %w", err)
		}
		if patch.Empty() {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE members
SET last_access_ms = ?,
    updated_at_ms  = ?
WHERE member_id = ?;
`, patch.LastAccess.UTC().UnixMilli(), nowMs, id); err != nil {
			return fmt.Errorf("Update last_access: %w", err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(r rowScanner) (types.Member, error) {
	var (
		m          types.Member
		tier       string
		status     string
		lastAccess sql.NullInt64
	)
	if err := r.Scan(
		&m.ID, &m.Name, &m.Email, &tier, &m.MemberSince, &m.Flights,
		&m.PhotoURL, &m.PassportNumber, &m.Nationality, &lastAccess, &status,
	); err != nil {
		return types.Member{}, err
	}
	m.Tier = types.Tier(tier)
	m.Status = types.MemberStatus(status)
	if lastAccess.Valid {
		t := time.UnixMilli(lastAccess.Int64).UTC()
		m.LastAccess = &t
	}
	return m, nil
}

func nullableMs(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().UnixMilli()
}
