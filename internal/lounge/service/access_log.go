package service

import (
	"context"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

type AccessLog struct {
	store store.AccessLogStore
}

func NewAccessLog(s store.AccessLogStore) *AccessLog {
	return &AccessLog{store: s}
}

// Recent returns up to limit entries, newest first. A non-positive limit
// means DefaultLogLimit; larger limits are capped at MaxLogLimit.
func (a *AccessLog) Recent(ctx context.Context, limit int) ([]types.AccessLogEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLogLimit
	case limit > MaxLogLimit:
		limit = MaxLogLimit
	}
	return a.store.List(ctx, limit)
}
