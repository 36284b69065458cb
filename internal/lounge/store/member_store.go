package store

import (
	"context"
	"errors"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record id already exists")
)

// RosterCapacity is the roster size shown to operators. It is a display
// figure, not an enforced limit.
const RosterCapacity = 20

// MemberStore owns the member records. Implementations serialize their own
// writes.
type MemberStore interface {
	List(ctx context.Context) ([]types.Member, error)
	Get(ctx context.Context, id string) (types.Member, error)
	Create(ctx context.Context, m types.Member) (types.Member, error)
	Update(ctx context.Context, id string, patch types.MemberPatch) error
}
