package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maypok86/otter"
	"github.com/rs/xid"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is a workflow instance held by the registry. Close must be safe
// to call more than once.
type Session interface {
	Close()
}

// waiter is implemented by sessions with background writes.
type waiter interface {
	Wait()
}

// Sessions maps opaque IDs to live workflow instances. Entries expire after
// a fixed lifetime; any eviction closes the instance so its camera handle
// and timers are released. Each instance is closed exactly once, by
// whichever path removes it first.
type Sessions[S Session] struct {
	kind  string
	ttl   time.Duration
	cache otter.Cache[string, S]
	log   *slog.Logger

	mu   sync.Mutex
	live map[string]tracked[S]

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type SessionsConfig struct {
	// TTL is how long a session lives after creation. Defaults to 30 minutes.
	TTL time.Duration
	// Capacity bounds the number of live sessions. Defaults to 256.
	Capacity int
	// SweepInterval is how often expired sessions are closed. Defaults to
	// TTL/2.
	SweepInterval time.Duration
}

func NewSessions[S Session](kind string, cfg SessionsConfig, logger *slog.Logger) (*Sessions[S], error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 256
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.TTL / 2
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Sessions[S]{
		kind: kind,
		ttl:  cfg.TTL,
		log:  logger.With("sessions", kind),
		live: make(map[string]tracked[S]),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	// Explicit and Replaced removals come from this type, which closes the
	// session itself.
	cache, err := otter.MustBuilder[string, S](cfg.Capacity).
		DeletionListener(func(id string, s S, cause otter.DeletionCause) {
			if cause == otter.Explicit || cause == otter.Replaced {
				return
			}
			if _, ok := r.forget(id); ok {
				r.log.Debug("session evicted", "id", id, "cause", causeName(cause))
				s.Close()
			}
		}).
		WithTTL(cfg.TTL).
		Build()
	if err != nil {
		return nil, fmt.Errorf("NewSessions(%s): %w", kind, err)
	}
	r.cache = cache

	go r.janitor(cfg.SweepInterval)
	return r, nil
}

// Add registers s under a fresh ID.
func (r *Sessions[S]) Add(s S) string {
	id := xid.New().String()
	r.mu.Lock()
	r.live[id] = tracked[S]{s: s, born: time.Now()}
	r.mu.Unlock()
	r.cache.Set(id, s)
	return id
}

func (r *Sessions[S]) Get(id string) (S, error) {
	s, ok := r.cache.Get(id)
	if !ok {
		var zero S
		return zero, fmt.Errorf("%s %q: %w", r.kind, id, ErrSessionNotFound)
	}
	return s, nil
}

// Delete closes and forgets the session.
func (r *Sessions[S]) Delete(id string) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	s, ok := r.forget(id)
	if !ok {
		// Lost the race to expiry, which closes it.
		return fmt.Errorf("%s %q: %w", r.kind, id, ErrSessionNotFound)
	}
	r.cache.Delete(id)
	s.Close()
	return nil
}

func (r *Sessions[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Close stops the janitor, closes every live session, waits for their
// background writes and stops the cache.
func (r *Sessions[S]) Close() {
	r.closeOnce.Do(r.close)
}

func (r *Sessions[S]) close() {
	close(r.stop)
	<-r.done

	r.mu.Lock()
	live := make([]S, 0, len(r.live))
	for _, t := range r.live {
		live = append(live, t.s)
	}
	clear(r.live)
	r.mu.Unlock()

	r.cache.Clear()
	for _, s := range live {
		s.Close()
		if w, ok := any(s).(waiter); ok {
			w.Wait()
		}
	}
	r.cache.Close()
}

type tracked[S Session] struct {
	s    S
	born time.Time
}

// forget claims id for closing. Only the first caller gets ok.
func (r *Sessions[S]) forget(id string) (S, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.live[id]
	if !ok {
		var zero S
		return zero, false
	}
	delete(r.live, id)
	return t.s, true
}

// janitor closes expired sessions on a ticker. The cache only evicts
// expired entries when other writes drive its maintenance, so an idle
// registry would otherwise keep their camera handles.
func (r *Sessions[S]) janitor(every time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep(time.Now())
		}
	}
}

func (r *Sessions[S]) sweep(now time.Time) {
	r.mu.Lock()
	var expired []string
	for id, t := range r.live {
		if now.Sub(t.born) >= r.ttl {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		s, ok := r.forget(id)
		if !ok {
			continue
		}
		r.cache.Delete(id)
		r.log.Debug("session evicted", "id", id, "cause", "expired")
		s.Close()
	}
}

func causeName(c otter.DeletionCause) string {
	switch c {
	case otter.Explicit:
		return "explicit"
	case otter.Expired:
		return "expired"
	case otter.Size:
		return "size"
	}
	return "replaced"
}
