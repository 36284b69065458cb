package types_test

import (
	"testing"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

func TestStatsOf(t *testing.T) {
	s := types.StatsOf([]types.Member{
		{ID: "1", Tier: types.TierPlatinum, Status: types.StatusActive},
		{ID: "2", Tier: types.TierGold, Status: types.StatusActive},
		{ID: "3", Tier: types.TierGold, Status: types.StatusSuspended},
	}, 20)

	if s.Registered != 3 || s.Capacity != 20 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.Tiers[types.TierGold] != 2 || s.Tiers[types.TierSilver] != 0 {
		t.Errorf("unexpected tier counts: %v", s.Tiers)
	}
	if s.Statuses[types.StatusActive] != 2 || s.Statuses[types.StatusExpired] != 0 {
		t.Errorf("unexpected status counts: %v", s.Statuses)
	}
}

func TestStatsOf_EmptyRoster(t *testing.T) {
	s := types.StatsOf(nil, 20)
	if s.Registered != 0 || len(s.Tiers) != 3 || len(s.Statuses) != 3 {
		t.Fatalf("expected zeroed counts, got %+v", s)
	}
}
