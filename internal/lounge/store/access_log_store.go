package store

import (
	"context"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

// AccessLogStore persists verification attempts as an append-only log.
type AccessLogStore interface {
	Append(ctx context.Context, e types.AccessLogEntry) error
	// List returns entries newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]types.AccessLogEntry, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
