package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

// TierAll disables the tier filter.
const TierAll = "all"

type MemberQuery struct {
	// Search matches name or email, case-insensitively. Empty matches all.
	Search string
	// Tier is a tier name or TierAll. Empty means TierAll.
	Tier string
}

// Directory is the read side of the member roster.
type Directory struct {
	members store.MemberStore
}

func NewDirectory(ms store.MemberStore) *Directory {
	return &Directory{members: ms}
}

func (d *Directory) Search(ctx context.Context, q MemberQuery) ([]types.Member, error) {
	var tier types.Tier
	if t := strings.TrimSpace(q.Tier); t != "" && !strings.EqualFold(t, TierAll) {
		parsed, err := types.ParseTier(t)
		if err != nil {
			return nil, err
		}
		tier = parsed
	}

	all, err := d.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}

	needle := strings.ToLower(q.Search)
	out := make([]types.Member, 0, len(all))
	for _, m := range all {
		if tier != "" && m.Tier != tier {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.Name), needle) &&
			!strings.Contains(strings.ToLower(m.Email), needle) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (d *Directory) Get(ctx context.Context, id string) (types.Member, error) {
	return d.members.Get(ctx, strings.TrimSpace(id))
}

func (d *Directory) Stats(ctx context.Context) (types.RosterStats, error) {
	all, err := d.members.List(ctx)
	if err != nil {
		return types.RosterStats{}, fmt.Errorf("Stats: %w", err)
	}
	return types.StatsOf(all, store.RosterCapacity), nil
}
