package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store/memory"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

// ── MemberStore ─────────────────────────────────────────────────────────────

func TestMemberStore_SeedSkipsBlankAndDuplicateIDs(t *testing.T) {
	ms := memory.NewMemberStore([]types.Member{
		{ID: "1", Name: "A"},
		{ID: " ", Name: "blank"},
		{ID: "1", Name: "dup"},
		{ID: "2", Name: "B"},
	})

	got, _ := ms.List(context.Background())
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("unexpected roster: %+v", got)
	}
}

func TestMemberStore_CreateThenListKeepsOrder(t *testing.T) {
	ms := memory.NewMemberStore([]types.Member{{ID: "1", Name: "A"}})
	ctx := context.Background()

	if _, err := ms.Create(ctx, types.Member{ID: "2", Name: "B"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := ms.Create(ctx, types.Member{ID: "2", Name: "again"}); !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	got, _ := ms.List(ctx)
	if len(got) != 2 || got[1].ID != "2" {
		t.Fatalf("expected new member appended, got %+v", got)
	}
}

func TestMemberStore_UpdateAppliesPatchAndCopies(t *testing.T) {
	ms := memory.NewMemberStore([]types.Member{{ID: "1", Name: "A"}})
	ctx := context.Background()

	at := time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)
	if err := ms.Update(ctx, "1", types.MemberPatch{LastAccess: &at}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// Mutating the caller's value must not reach the store.
	at = at.Add(time.Hour)

	got, err := ms.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LastAccess == nil || got.LastAccess.Hour() != 8 {
		t.Errorf("expected last access 08:00, got %v", got.LastAccess)
	}

	if err := ms.Update(ctx, "missing", types.MemberPatch{LastAccess: &at}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ── AccessLogStore ──────────────────────────────────────────────────────────

func TestAccessLogStore_ListNewestFirst(t *testing.T) {
	base := time.Date(2026, 2, 27, 6, 0, 0, 0, time.UTC)
	ls := memory.NewAccessLogStore([]types.AccessLogEntry{
		types.DeniedEntry("old", 20, base),
		types.DeniedEntry("new", 30, base.Add(2*time.Minute)),
	})
	ctx := context.Background()

	if err := ls.Append(ctx, types.DeniedEntry("mid", 25, base.Add(time.Minute))); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, _ := ls.List(ctx, 0)
	if len(got) != 3 || got[0].ID != "new" || got[1].ID != "mid" || got[2].ID != "old" {
		t.Fatalf("unexpected order: %+v", got)
	}

	one, _ := ls.List(ctx, 1)
	if len(one) != 1 || one[0].ID != "new" {
		t.Errorf("expected limit to keep newest, got %+v", one)
	}
}

func TestAccessLogStore_PruneOlderThan(t *testing.T) {
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	ls := memory.NewAccessLogStore([]types.AccessLogEntry{
		types.DeniedEntry("a", 20, now.AddDate(0, 0, -100)),
		types.DeniedEntry("b", 20, now.AddDate(0, 0, -1)),
	})

	n, err := ls.PruneOlderThan(context.Background(), now.AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	if left := ls.Entries(); len(left) != 1 || left[0].ID != "b" {
		t.Errorf("unexpected remaining entries: %+v", left)
	}
}
