package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jpillora/backoff"

	"github.com/BrandonDHaskell/loungegate/internal/clock"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/capture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

type RecognitionState string

const (
	StateIdle       RecognitionState = "idle"
	StateScanning   RecognitionState = "scanning"
	StateRecognized RecognitionState = "recognized"
	StateDenied     RecognitionState = "denied"
)

// MemberRoster is the part of the member store recognition reads and
// touches.
type MemberRoster interface {
	List(ctx context.Context) ([]types.Member, error)
	Update(ctx context.Context, id string, patch types.MemberPatch) error
}

// AccessRecorder receives one entry per resolved scan.
type AccessRecorder interface {
	Append(ctx context.Context, e types.AccessLogEntry) error
}

type RecognitionConfig struct {
	Device   capture.Device
	Members  MemberRoster
	Access   AccessRecorder // optional
	Clock    clock.Clock
	Rand     Rand
	Logger   *slog.Logger
	Observer Observer
	NewID    func() string

	// RetryAttempts and RetryMin shape the last-access update retries.
	// Defaults: 3 attempts starting at 100ms.
	RetryAttempts int
	RetryMin      time.Duration
}

type RecognitionSnapshot struct {
	State        RecognitionState  `json:"state"`
	CameraActive bool              `json:"camera_active"`
	Member       *types.Member     `json:"member,omitempty"`
	Confidence   float64           `json:"confidence"`
	Stats        types.RosterStats `json:"stats"`
	LastError    string            `json:"last_error,omitempty"`
	Warning      string            `json:"warning,omitempty"`
	Closed       bool              `json:"closed"`
}

// Recognition simulates face verification at the lounge door against a
// roster fetched once at mount.
type Recognition struct {
	mu sync.Mutex
	wg sync.WaitGroup

	dev      capture.Device
	members  MemberRoster
	access   AccessRecorder
	clk      clock.Clock
	rnd      Rand
	log      *slog.Logger
	obs      Observer
	newID    func() string
	attempts int
	retryMin time.Duration

	scan       *Task
	closed     bool
	gen        uint64
	scans      uint64 // started scans; tags background results
	roster     []types.Member
	stream     capture.Stream
	state      RecognitionState
	matched    *types.Member
	confidence float64
	lastErr    string
	warning    string
}

func NewRecognition(cfg RecognitionConfig) *Recognition {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Rand == nil {
		cfg.Rand = NewRand(uint64(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryMin <= 0 {
		cfg.RetryMin = 100 * time.Millisecond
	}
	r := &Recognition{
		dev:      cfg.Device,
		members:  cfg.Members,
		access:   cfg.Access,
		clk:      cfg.Clock,
		rnd:      cfg.Rand,
		log:      cfg.Logger.With("workflow", "recognition"),
		obs:      cfg.Observer,
		newID:    cfg.NewID,
		attempts: cfg.RetryAttempts,
		retryMin: cfg.RetryMin,
		state:    StateIdle,
	}
	r.scan = NewTask(&r.mu, cfg.Clock)
	return r
}

// Mount fetches the roster. On failure the roster is empty, the error is
// surfaced in the snapshot and returned.
func (r *Recognition) Mount(ctx context.Context) error {
	list, err := r.members.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if err != nil {
		r.roster = nil
		r.lastErr = err.Error()
		r.log.ErrorContext(ctx, "roster fetch failed", "err", err)
		return fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	r.roster = list
	return nil
}

// Activate acquires the camera. Activating an active camera is a no-op.
func (r *Recognition) Activate(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.stream != nil {
		r.mu.Unlock()
		return nil
	}
	gen := r.gen
	dev := r.dev
	r.mu.Unlock()

	s, err := dev.Acquire(ctx, RecognitionConstraints)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		if gen == r.gen {
			r.lastErr = fmt.Sprintf("%s: %v", ErrCaptureUnavailable, err)
		}
		r.obs.CaptureFailed("recognition")
		r.log.WarnContext(ctx, "camera acquisition failed", "err", err)
		return fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}
	if r.closed {
		s.Stop()
		return ErrClosed
	}
	if gen != r.gen || r.stream != nil {
		s.Stop()
		return nil
	}
	r.stream = s
	r.lastErr = ""
	return nil
}

// Scan starts a simulated verification. With an empty roster it resolves
// to denied at once with confidence 0.
func (r *Recognition) Scan() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.state == StateScanning {
		return ErrScanInProgress
	}
	if len(r.roster) == 0 {
		r.state = StateDenied
		r.confidence = 0
		r.matched = nil
		r.obs.ScanResolved(types.OutcomeDenied)
		return nil
	}
	if r.stream == nil {
		return ErrCameraInactive
	}

	r.state = StateScanning
	r.scans++
	r.matched = nil
	r.confidence = 0
	r.warning = ""
	r.scan.Schedule(ScanDuration, r.resolveLocked)
	return nil
}

func (r *Recognition) resolveLocked() {
	now := r.clk.Now()
	scan := r.scans

	if r.rnd.Float64() > MatchThreshold {
		m := r.roster[r.rnd.IntN(len(r.roster))]
		r.confidence = round1(92 + 7*r.rnd.Float64())
		r.matched = &m
		r.state = StateRecognized
		r.obs.ScanResolved(types.OutcomeGranted)
		r.log.Info("member recognized", "member_id", m.ID, "confidence", r.confidence)

		r.background(func(ctx context.Context) { r.touchLastAccess(ctx, m.ID, now, scan) })
		r.record(types.GrantedEntry(r.newID(), m, r.confidence, now))
		return
	}

	r.confidence = round1(20 + 20*r.rnd.Float64())
	r.matched = nil
	r.state = StateDenied
	r.obs.ScanResolved(types.OutcomeDenied)
	r.log.Info("access denied", "confidence", r.confidence)
	r.record(types.DeniedEntry(r.newID(), r.confidence, now))
}

func (r *Recognition) record(entry types.AccessLogEntry) {
	if r.access == nil {
		return
	}
	access := r.access
	r.background(func(ctx context.Context) {
		if err := access.Append(ctx, entry); err != nil {
			r.log.Warn("access log append failed", "entry_id", entry.ID, "err", err)
		}
	})
}

// background runs f on its own goroutine with a bounded context. Wait
// blocks until every such call has returned.
func (r *Recognition) background(f func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		f(ctx)
	}()
}

// touchLastAccess updates the member's last access, retrying transient
// failures. A final failure is only surfaced as a warning, and only while
// scan is still the latest one.
func (r *Recognition) touchLastAccess(ctx context.Context, id string, at time.Time, scan uint64) {
	b := &backoff.Backoff{Min: r.retryMin, Max: 20 * r.retryMin, Factor: 2, Jitter: true}
	patch := types.MemberPatch{LastAccess: &at}

	var err error
	for attempt := 1; ; attempt++ {
		if err = r.members.Update(ctx, id, patch); err == nil {
			return
		}
		if errors.Is(err, store.ErrNotFound) || attempt >= r.attempts {
			break
		}
		if serr := sleepCtx(ctx, b.Duration()); serr != nil {
			err = serr
			break
		}
	}

	r.log.Warn("last access update failed", "member_id", id, "err", err)
	r.mu.Lock()
	if r.scans == scan {
		r.warning = "last access update failed: " + err.Error()
	}
	r.mu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Stop releases the camera, cancels any pending scan and returns to idle.
func (r *Recognition) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Close is Stop for a recognition view that is going away. Later calls
// return ErrClosed.
func (r *Recognition) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.closed = true
}

// Wait blocks until background store writes have finished.
func (r *Recognition) Wait() {
	r.wg.Wait()
}

func (r *Recognition) Snapshot() RecognitionSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched *types.Member
	if r.matched != nil {
		m := *r.matched
		matched = &m
	}
	return RecognitionSnapshot{
		State:        r.state,
		CameraActive: r.stream != nil,
		Member:       matched,
		Confidence:   r.confidence,
		Stats:        types.StatsOf(r.roster, store.RosterCapacity),
		LastError:    r.lastErr,
		Warning:      r.warning,
		Closed:       r.closed,
	}
}

func (r *Recognition) stopLocked() {
	r.scan.Cancel()
	if r.stream != nil {
		r.stream.Stop()
		r.stream = nil
	}
	r.gen++
	r.state = StateIdle
	r.matched = nil
	r.confidence = 0
}
