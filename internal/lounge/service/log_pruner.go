package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
)

// LogPruner periodically deletes access-log entries older than a
// configurable retention period. It runs as a background goroutine and is
// stopped via its context or Stop.
//
// A retention of 0 disables pruning entirely.
type LogPruner struct {
	store     store.AccessLogStore
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

type PrunerConfig struct {
	// RetentionDays is how many days of access history to keep.
	// 0 means keep everything (pruner will not start).
	RetentionDays int

	// Interval is how often the pruner runs. Defaults to 6h.
	Interval time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewLogPruner creates a pruner but does not start it.
func NewLogPruner(s store.AccessLogStore, cfg PrunerConfig, logger *slog.Logger) *LogPruner {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LogPruner{
		store:     s,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		now:       now,
		logger:    logger.With("component", "log_pruner"),
		done:      make(chan struct{}),
	}
}

// Start runs an immediate prune, then repeats on the configured interval
// until ctx is cancelled or Stop is called.
func (p *LogPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Info("access log pruner disabled", "retention_days", 0)
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Info("access log pruner started",
		"retention_days", int(p.retention.Hours()/24), "interval", p.interval.String())
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *LogPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

// Done is closed once the loop has exited.
func (p *LogPruner) Done() <-chan struct{} {
	return p.done
}

func (p *LogPruner) loop(ctx context.Context) {
	defer close(p.done)

	// Clean up any backlog first.
	p.PruneOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PruneOnce(ctx)
		}
	}
}

// PruneOnce deletes entries older than the retention window and reports
// how many went.
func (p *LogPruner) PruneOnce(ctx context.Context) int64 {
	cutoff := p.now().UTC().Add(-p.retention)
	deleted, err := p.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("access log prune failed", "err", err)
		return 0
	}
	if deleted > 0 {
		p.logger.Info("access log pruned", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
	return deleted
}
