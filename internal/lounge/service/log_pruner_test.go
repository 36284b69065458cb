package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/service"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store/memory"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

func TestLogPruner_DisabledWhenRetentionZero(t *testing.T) {
	ls := memory.NewAccessLogStore(nil)
	pruner := service.NewLogPruner(ls, service.PrunerConfig{
		RetentionDays: 0,
		Interval:      time.Hour,
	}, silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pruner.Start(ctx)
	// Stop should return immediately without error.
	pruner.Stop()
}

func TestLogPruner_PruneOnceDeletesOldEntries(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ls := memory.NewAccessLogStore([]types.AccessLogEntry{
		types.DeniedEntry("old", 22.5, now.AddDate(0, 0, -91)),
		types.DeniedEntry("recent", 31.0, now.AddDate(0, 0, -1)),
	})

	pruner := service.NewLogPruner(ls, service.PrunerConfig{
		RetentionDays: 90,
		Now:           func() time.Time { return now },
	}, silentLogger())

	if deleted := pruner.PruneOnce(context.Background()); deleted != 1 {
		t.Fatalf("expected 1 pruned, got %d", deleted)
	}

	left := ls.Entries()
	if len(left) != 1 || left[0].ID != "recent" {
		t.Errorf("expected only the recent entry, got %+v", left)
	}

	// Nothing left to prune.
	if deleted := pruner.PruneOnce(context.Background()); deleted != 0 {
		t.Errorf("expected 0 on second prune, got %d", deleted)
	}
}

func TestLogPruner_StartPrunesImmediately(t *testing.T) {
	ls := memory.NewAccessLogStore([]types.AccessLogEntry{
		types.DeniedEntry("old", 22.5, time.Now().UTC().AddDate(0, 0, -200)),
	})
	pruner := service.NewLogPruner(ls, service.PrunerConfig{
		RetentionDays: 90,
		Interval:      time.Hour,
	}, silentLogger())

	pruner.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for len(ls.Entries()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("startup prune did not run")
		}
		time.Sleep(5 * time.Millisecond)
	}
	pruner.Stop()
}

func TestLogPruner_StopIsIdempotent(t *testing.T) {
	ls := memory.NewAccessLogStore(nil)
	pruner := service.NewLogPruner(ls, service.PrunerConfig{
		RetentionDays: 30,
		Interval:      time.Hour,
	}, silentLogger())

	pruner.Start(context.Background())
	pruner.Stop()
	// Second stop should not panic or block.
	pruner.Stop()
}

func TestLogPruner_ContextCancelStopsLoop(t *testing.T) {
	ls := memory.NewAccessLogStore(nil)
	pruner := service.NewLogPruner(ls, service.PrunerConfig{
		RetentionDays: 30,
		Interval:      time.Hour,
	}, silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	pruner.Start(ctx)
	cancel()

	select {
	case <-pruner.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("pruner did not exit after context cancellation")
	}
}
