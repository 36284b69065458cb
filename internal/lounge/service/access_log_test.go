package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/service"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store/memory"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

func TestAccessLog_RecentLimits(t *testing.T) {
	base := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	var seed []types.AccessLogEntry
	for i := 0; i < service.MaxLogLimit+10; i++ {
		seed = append(seed, types.DeniedEntry(fmt.Sprintf("e%d", i), 25, base.Add(time.Duration(i)*time.Second)))
	}
	a := service.NewAccessLog(memory.NewAccessLogStore(seed))
	ctx := context.Background()

	tests := []struct {
		limit int
		want  int
	}{
		{0, service.DefaultLogLimit},
		{-3, service.DefaultLogLimit},
		{5, 5},
		{service.MaxLogLimit + 100, service.MaxLogLimit},
	}
	for _, tc := range tests {
		got, err := a.Recent(ctx, tc.limit)
		if err != nil {
			t.Fatalf("Recent(%d): %v", tc.limit, err)
		}
		if len(got) != tc.want {
			t.Errorf("Recent(%d): expected %d entries, got %d", tc.limit, tc.want, len(got))
		}
	}

	got, _ := a.Recent(ctx, 1)
	if got[0].ID != fmt.Sprintf("e%d", service.MaxLogLimit+9) {
		t.Errorf("expected newest entry first, got %s", got[0].ID)
	}
}

func TestSecurityProtocolsAndRoutes(t *testing.T) {
	protocols := service.SecurityProtocols()
	if len(protocols) != 4 {
		t.Fatalf("expected 4 protocols, got %d", len(protocols))
	}
	for _, p := range protocols {
		if p.Status != "Active" || p.Title == "" {
			t.Errorf("unexpected protocol %+v", p)
		}
	}

	routes := service.Routes()
	if len(routes) != 4 || routes[0].Name != "recognition" || !routes[0].Default {
		t.Fatalf("unexpected routes %+v", routes)
	}
}
