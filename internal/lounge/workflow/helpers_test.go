package workflow_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/clock"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

var epoch = time.Date(2026, 2, 27, 8, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newClock() *clock.Manual {
	return clock.NewManual(epoch)
}

// scriptRand replays fixed draws and fails the test when it runs dry.
type scriptRand struct {
	t      *testing.T
	floats []float64
	ints   []int
}

func (r *scriptRand) Float64() float64 {
	if len(r.floats) == 0 {
		r.t.Errorf("unexpected Float64 draw")
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptRand) IntN(n int) int {
	if len(r.ints) == 0 {
		r.t.Errorf("unexpected IntN(%d) draw", n)
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i
}

// flakyMembers wraps a roster and fails the first n updates.
type flakyMembers struct {
	mu       sync.Mutex
	members  []types.Member
	failures int
	err      error
	updates  int
	patched  map[string]time.Time
}

func (f *flakyMembers) List(context.Context) ([]types.Member, error) {
	return append([]types.Member(nil), f.members...), nil
}

func (f *flakyMembers) Update(_ context.Context, id string, p types.MemberPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updates <= f.failures {
		return f.err
	}
	if f.patched == nil {
		f.patched = map[string]time.Time{}
	}
	f.patched[id] = *p.LastAccess
	return nil
}

func (f *flakyMembers) Updates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

type failingLister struct{}

func (failingLister) List(context.Context) ([]types.Member, error) {
	return nil, errors.New("database is locked")
}

func (failingLister) Update(context.Context, string, types.MemberPatch) error {
	return errors.New("database is locked")
}

// failingCreator fails the first n creates.
type failingCreator struct {
	failures int
	calls    int
	created  []types.Member
}

func (c *failingCreator) Create(_ context.Context, m types.Member) (types.Member, error) {
	c.calls++
	if c.calls <= c.failures {
		return types.Member{}, errors.New("disk full")
	}
	c.created = append(c.created, m)
	return m, nil
}

// countingObserver records workflow events.
type countingObserver struct {
	mu            sync.Mutex
	captureFailed map[string]int
	enrolled      int
	outcomes      map[types.AccessOutcome]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{captureFailed: map[string]int{}, outcomes: map[types.AccessOutcome]int{}}
}

func (o *countingObserver) CaptureFailed(w string) {
	o.mu.Lock()
	o.captureFailed[w]++
	o.mu.Unlock()
}

func (o *countingObserver) MemberEnrolled() {
	o.mu.Lock()
	o.enrolled++
	o.mu.Unlock()
}

func (o *countingObserver) ScanResolved(out types.AccessOutcome) {
	o.mu.Lock()
	o.outcomes[out]++
	o.mu.Unlock()
}

func roster() []types.Member {
	return []types.Member{
		{ID: "1", Name: "Alexandra Chen", Tier: types.TierPlatinum, Status: types.StatusActive, PhotoURL: "https://x/1.jpg"},
		{ID: "2", Name: "James Morrison", Tier: types.TierGold, Status: types.StatusActive, PhotoURL: "https://x/2.jpg"},
		{ID: "3", Name: "Sofia Rodriguez", Tier: types.TierSilver, Status: types.StatusExpired, PhotoURL: "https://x/3.jpg"},
	}
}

// gatedMembers holds every Update until release is closed, then fails it.
type gatedMembers struct {
	members []types.Member
	entered chan struct{}
	release chan struct{}
	err     error
}

func newGatedMembers(members []types.Member, err error) *gatedMembers {
	return &gatedMembers{
		members: members,
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
		err:     err,
	}
}

func (g *gatedMembers) List(context.Context) ([]types.Member, error) {
	return append([]types.Member(nil), g.members...), nil
}

func (g *gatedMembers) Update(ctx context.Context, _ string, _ types.MemberPatch) error {
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return g.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
