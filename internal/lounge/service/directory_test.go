package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/fixture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/service"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store/memory"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

func newDirectory() *service.Directory {
	return service.NewDirectory(memory.NewMemberStore(fixture.MustDefault().Members))
}

func TestDirectory_Search(t *testing.T) {
	d := newDirectory()
	ctx := context.Background()

	tests := []struct {
		name  string
		query service.MemberQuery
		want  []string
	}{
		{"everyone", service.MemberQuery{}, []string{"1", "2", "3", "4", "5", "6"}},
		{"explicit all", service.MemberQuery{Tier: "all"}, []string{"1", "2", "3", "4", "5", "6"}},
		{"name case-insensitive", service.MemberQuery{Search: "CHEN"}, []string{"1"}},
		{"email substring", service.MemberQuery{Search: "rossi@"}, []string{"4"}},
		{"tier filter", service.MemberQuery{Tier: "Gold"}, []string{"3", "4"}},
		{"tier lowercase", service.MemberQuery{Tier: "platinum"}, []string{"1", "2"}},
		{"search and tier", service.MemberQuery{Search: "a", Tier: "Silver"}, []string{"5", "6"}},
		{"no match", service.MemberQuery{Search: "zzz"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := d.Search(ctx, tc.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			var ids []string
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			if len(ids) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, ids)
			}
			for i := range ids {
				if ids[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, ids)
				}
			}
		})
	}
}

func TestDirectory_Search_InvalidTier(t *testing.T) {
	_, err := newDirectory().Search(context.Background(), service.MemberQuery{Tier: "Bronze"})
	if !errors.Is(err, types.ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestDirectory_Get(t *testing.T) {
	d := newDirectory()
	m, err := d.Get(context.Background(), " 1 ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Name != "Alexandra Chen" {
		t.Errorf("unexpected member %q", m.Name)
	}
	if _, err := d.Get(context.Background(), "99"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectory_Stats(t *testing.T) {
	s, err := newDirectory().Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Registered != 6 || s.Capacity != store.RosterCapacity {
		t.Errorf("unexpected totals: %+v", s)
	}
	if s.Tiers[types.TierPlatinum] != 2 || s.Tiers[types.TierGold] != 2 || s.Tiers[types.TierSilver] != 2 {
		t.Errorf("unexpected tier counts: %v", s.Tiers)
	}
}
