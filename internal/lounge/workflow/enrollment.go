package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/BrandonDHaskell/loungegate/internal/clock"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/capture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

type EnrollmentStep string

const (
	StepCamera   EnrollmentStep = "camera"
	StepScanning EnrollmentStep = "scanning"
	StepCaptured EnrollmentStep = "captured"
	StepForm     EnrollmentStep = "form"
)

// MemberCreator is the part of the member store enrollment writes to.
type MemberCreator interface {
	Create(ctx context.Context, m types.Member) (types.Member, error)
}

type EnrollmentConfig struct {
	Device   capture.Device
	Members  MemberCreator
	Clock    clock.Clock
	Logger   *slog.Logger
	Observer Observer
	// NewID generates member IDs. Defaults to uuid.NewString.
	NewID func() string
}

type EnrollmentSnapshot struct {
	Open        bool                 `json:"open"`
	Step        EnrollmentStep       `json:"step"`
	CameraReady bool                 `json:"camera_ready"`
	Photo       string               `json:"photo,omitempty"`
	Form        types.EnrollmentForm `json:"form"`
	Submitting  bool                 `json:"submitting"`
	LastError   string               `json:"last_error,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// Enrollment walks one new member through camera, scan, capture and form.
// The zero value is not usable; call NewEnrollment.
type Enrollment struct {
	mu sync.Mutex

	dev      capture.Device
	members  MemberCreator
	clk      clock.Clock
	log      *slog.Logger
	obs      Observer
	newID    func() string
	mount    *Task // camera acquisition after open
	step     *Task // scan and captured-to-form delays
	open     bool
	gen      uint64
	stage    EnrollmentStep
	stream   capture.Stream
	photo    string
	form     types.EnrollmentForm
	busy     bool
	lastErr  string
	warnings []string
}

func NewEnrollment(cfg EnrollmentConfig) *Enrollment {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
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
	e := &Enrollment{
		dev:     cfg.Device,
		members: cfg.Members,
		clk:     cfg.Clock,
		log:     cfg.Logger.With("workflow", "enrollment"),
		obs:     cfg.Observer,
		newID:   cfg.NewID,
		stage:   StepCamera,
	}
	e.mount = NewTask(&e.mu, cfg.Clock)
	e.step = NewTask(&e.mu, cfg.Clock)
	return e
}

// Open resets the dialog and schedules camera acquisition. Calling Open on
// an already open dialog starts over, which is also how a failed
// acquisition is retried.
func (e *Enrollment) Open() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
	e.open = true
	e.mount.Schedule(AcquireDelay, e.acquireLocked)
}

// acquireLocked runs from the mount task with e.mu held. The lock is
// dropped around the device call.
func (e *Enrollment) acquireLocked() {
	gen := e.gen
	dev := e.dev

	e.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), acquireTimeout)
	s, err := dev.Acquire(ctx, EnrollmentConstraints)
	cancel()
	e.mu.Lock()

	if err != nil {
		if gen == e.gen {
			e.lastErr = fmt.Sprintf("%s: %v", ErrCaptureUnavailable, err)
			e.obs.CaptureFailed("enrollment")
			e.log.Warn("camera acquisition failed", "err", err)
		}
		return
	}

	// The dialog moved on while the device call was in flight.
	if gen != e.gen || !e.open || e.stream != nil ||
		(e.stage != StepCamera && e.stage != StepScanning) {
		s.Stop()
		return
	}
	e.stream = s
}

// Scan starts the simulated face scan. It is allowed before the camera is
// ready; the captured photo is then empty.
func (e *Enrollment) Scan() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return ErrClosed
	}
	if e.stage != StepCamera {
		return fmt.Errorf("Scan: step %s: %w", e.stage, ErrInvalidState)
	}
	e.stage = StepScanning
	e.step.Schedule(ScanDuration, e.captureLocked)
	return nil
}

func (e *Enrollment) captureLocked() {
	// No acquisition may land once the frame is taken.
	e.mount.Cancel()

	photo := ""
	if e.stream != nil {
		frame, err := e.stream.Frame()
		if err == nil {
			photo, err = capture.Snapshot(frame, PortraitSize, capture.DefaultQuality)
		}
		if err != nil {
			e.log.Warn("frame capture failed", "err", err)
			photo = ""
		}
	}
	e.releaseLocked()

	e.photo = photo
	e.stage = StepCaptured
	e.step.Schedule(CapturedHold, func() {
		e.stage = StepForm
	})
}

// Submit validates form and creates the member. On success the dialog
// closes and resets. A validation error leaves the state untouched; a store
// error leaves the dialog on the form so the call can be retried.
func (e *Enrollment) Submit(ctx context.Context, form types.EnrollmentForm) (types.Member, error) {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return types.Member{}, ErrClosed
	}
	if e.stage != StepForm || e.busy {
		stage := e.stage
		e.mu.Unlock()
		return types.Member{}, fmt.Errorf("Submit: step %s: %w", stage, ErrInvalidState)
	}
	if err := form.Validate(); err != nil {
		e.mu.Unlock()
		return types.Member{}, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}

	form = form.Normalize()
	e.form = form
	e.warnings = form.Warnings()
	e.busy = true
	gen := e.gen
	m := form.NewMember(e.newID(), e.photo, e.clk.Now())
	members := e.members
	e.mu.Unlock()

	created, err := members.Create(ctx, m)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		// Closed during the store call; the record stands either way.
		if err != nil {
			return types.Member{}, fmt.Errorf("%w: %w", ErrStoreFailed, err)
		}
		e.obs.MemberEnrolled()
		return created, nil
	}
	e.busy = false
	if err != nil {
		e.lastErr = err.Error()
		e.log.ErrorContext(ctx, "member create failed", "err", err)
		return types.Member{}, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	e.obs.MemberEnrolled()
	e.log.InfoContext(ctx, "member enrolled", "member_id", created.ID, "tier", created.Tier)
	e.resetLocked()
	return created, nil
}

// Close dismisses the dialog from any state, cancelling pending timers and
// releasing the camera.
func (e *Enrollment) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Enrollment) Snapshot() EnrollmentSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EnrollmentSnapshot{
		Open:        e.open,
		Step:        e.stage,
		CameraReady: e.stream != nil,
		Photo:       e.photo,
		Form:        e.form,
		Submitting:  e.busy,
		LastError:   e.lastErr,
		Warnings:    append([]string(nil), e.warnings...),
	}
}

// resetLocked returns to the closed initial state.
func (e *Enrollment) resetLocked() {
	e.mount.Cancel()
	e.step.Cancel()
	e.releaseLocked()
	e.gen++
	e.open = false
	e.stage = StepCamera
	e.photo = ""
	e.form = types.EnrollmentForm{}
	e.busy = false
	e.lastErr = ""
	e.warnings = nil
}

func (e *Enrollment) releaseLocked() {
	if e.stream != nil {
		e.stream.Stop()
		e.stream = nil
	}
}
