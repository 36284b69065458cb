package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/db"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/fixture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	sqlitestore "github.com/BrandonDHaskell/loungegate/internal/lounge/store/sqlite"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

func newMember(id, name string) types.Member {
	return types.Member{
		ID:          id,
		Name:        name,
		Email:       id + "@example.com",
		Tier:        types.TierGold,
		MemberSince: "2026-02-27",
		Status:      types.StatusActive,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Create / Get
// ═══════════════════════════════════════════════════════════════════════════

func TestMemberStore_Create_RoundTrip(t *testing.T) {
	conn := openTestDB(t)
	ms := sqlitestore.NewMemberStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	m := newMember("m-1", "Ada Lovelace")
	m.PhotoURL = "data:image/jpeg;base64,AAAA"
	m.PassportNumber = "X123"
	m.Nationality = "United Kingdom"

	if _, err := ms.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := ms.Get(ctx, "m-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Ada Lovelace" || got.Tier != types.TierGold || got.Status != types.StatusActive {
		t.Errorf("unexpected member: %+v", got)
	}
	if got.PhotoURL != m.PhotoURL {
		t.Errorf("expected photo to round-trip, got %q", got.PhotoURL)
	}
	if got.LastAccess != nil {
		t.Errorf("expected NULL last_access, got %v", got.LastAccess)
	}
}

func TestMemberStore_Create_DuplicateID(t *testing.T) {
	conn := openTestDB(t)
	ms := sqlitestore.NewMemberStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	if _, err := ms.Create(ctx, newMember("m-1", "First")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := ms.Create(ctx, newMember("m-1", "Second"))
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	got, _ := ms.Get(ctx, "m-1")
	if got.Name != "First" {
		t.Errorf("expected original record kept, got %q", got.Name)
	}
}

func TestMemberStore_Create_InvalidTier(t *testing.T) {
	conn := openTestDB(t)
	ms := sqlitestore.NewMemberStore(conn, newTestWriter(t, conn))

	m := newMember("m-1", "Ada")
	m.Tier = "Bronze"
	if _, err := ms.Create(context.Background(), m); !errors.Is(err, types.ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestMemberStore_Get_NotFound(t *testing.T) {
	conn := openTestDB(t)
	ms := sqlitestore.NewMemberStore(conn, newTestWriter(t, conn))

	if _, err := ms.Get(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Update
// ═══════════════════════════════════════════════════════════════════════════

func TestMemberStore_Update_LastAccessOnly(t *testing.T) {
	conn := openTestDB(t)
	ms := sqlitestore.NewMemberStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	if _, err := ms.Create(ctx, newMember("m-1", "Ada")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	at := time.Date(2026, 2, 27, 8, 32, 0, 0, time.UTC)
	if err := ms.Update(ctx, "m-1", types.MemberPatch{LastAccess: &at}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := ms.Get(ctx, "m-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LastAccess == nil || !got.LastAccess.Equal(at) {
		t.Errorf("expected last_access=%v, got %v", at, got.LastAccess)
	}
	if got.Name != "Ada" || got.Flights != 0 {
		t.Errorf("expected other fields untouched, got %+v", got)
	}
}

func TestMemberStore_Update_NotFound(t *testing.T) {
	conn := openTestDB(t)
	ms := sqlitestore.NewMemberStore(conn, newTestWriter(t, conn))

	at := time.Now().UTC()
	err := ms.Update(context.Background(), "missing", types.MemberPatch{LastAccess: &at})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// List + seed
// ═══════════════════════════════════════════════════════════════════════════

func TestMemberStore_List_SeededFixtureInOrder(t *testing.T) {
	conn := openTestDB(t)
	ms := sqlitestore.NewMemberStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	f := fixture.MustDefault()
	if err := db.SeedDev(ctx, conn, db.SeedDevOptions{Members: f.Members, AccessLog: f.AccessLog}); err != nil {
		t.Fatalf("SeedDev: %v", err)
	}
	// Seeding twice must not duplicate rows.
	if err := db.SeedDev(ctx, conn, db.SeedDevOptions{Members: f.Members, AccessLog: f.AccessLog}); err != nil {
		t.Fatalf("SeedDev again: %v", err)
	}

	got, err := ms.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(f.Members) {
		t.Fatalf("expected %d members, got %d", len(f.Members), len(got))
	}
	for i := range got {
		if got[i].ID != f.Members[i].ID {
			t.Errorf("position %d: expected id %s, got %s", i, f.Members[i].ID, got[i].ID)
		}
	}
	if got[0].LastAccess == nil || !got[0].LastAccess.Equal(*f.Members[0].LastAccess) {
		t.Errorf("expected seeded last_access, got %v", got[0].LastAccess)
	}
}

func TestMemberStore_Create_NullableLastAccessColumn(t *testing.T) {
	conn := openTestDB(t)
	ms := sqlitestore.NewMemberStore(conn, newTestWriter(t, conn))

	if _, err := ms.Create(context.Background(), newMember("m-1", "Ada")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var lastAccess sql.NullInt64
	err := conn.QueryRowContext(context.Background(),
		`SELECT last_access_ms FROM members WHERE member_id = ?`, "m-1",
	).Scan(&lastAccess)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if lastAccess.Valid {
		t.Error("expected last_access_ms to be NULL")
	}
}
