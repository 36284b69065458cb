package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

// MemberStore keeps members in insertion order. It is used in tests and
// when the server runs without a database.
type MemberStore struct {
	mu      sync.RWMutex
	order   []string
	members map[string]types.Member
}

// NewMemberStore returns a store pre-loaded with seed. Seed entries with a
// blank or repeated ID are skipped.
func NewMemberStore(seed []types.Member) *MemberStore {
	s := &MemberStore{members: make(map[string]types.Member, len(seed))}
	for _, m := range seed {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			continue
		}
		if _, ok := s.members[id]; ok {
			continue
		}
		s.order = append(s.order, id)
		s.members[id] = copyMember(m)
	}
	return s
}

func (s *MemberStore) List(_ context.Context) ([]types.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Member, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyMember(s.members[id]))
	}
	return out, nil
}

func (s *MemberStore) Get(_ context.Context, id string) (types.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return types.Member{}, store.ErrNotFound
	}
	return copyMember(m), nil
}

func (s *MemberStore) Create(_ context.Context, m types.Member) (types.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.ID]; ok {
		return types.Member{}, store.ErrDuplicateID
	}
	s.order = append(s.order, m.ID)
	s.members[m.ID] = copyMember(m)
	return copyMember(m), nil
}

func (s *MemberStore) Update(_ context.Context, id string, patch types.MemberPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return store.ErrNotFound
	}
	s.members[id] = patch.Apply(m)
	return nil
}

func copyMember(m types.Member) types.Member {
	if m.LastAccess != nil {
		t := *m.LastAccess
		m.LastAccess = &t
	}
	return m
}
