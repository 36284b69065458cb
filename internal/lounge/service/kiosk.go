package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/BrandonDHaskell/loungegate/internal/clock"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/capture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/workflow"
)

type KioskConfig struct {
	Device    capture.Device
	Members   store.MemberStore
	AccessLog store.AccessLogStore
	Clock     clock.Clock
	Observer  workflow.Observer
	Logger    *slog.Logger
	Sessions  SessionsConfig

	// Seed fixes recognition randomness; session n draws from Seed+n.
	// Zero seeds every session at random.
	Seed uint64
}

// Kiosk creates workflow instances against the shared stores and camera
// and keeps them in per-kind session registries.
type Kiosk struct {
	cfg          KioskConfig
	log          *slog.Logger
	seq          atomic.Uint64
	enrollments  *Sessions[*workflow.Enrollment]
	recognitions *Sessions[*workflow.Recognition]
}

func NewKiosk(cfg KioskConfig) (*Kiosk, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	enrollments, err := NewSessions[*workflow.Enrollment]("enrollment", cfg.Sessions, cfg.Logger)
	if err != nil {
		return nil, err
	}
	recognitions, err := NewSessions[*workflow.Recognition]("recognition", cfg.Sessions, cfg.Logger)
	if err != nil {
		enrollments.Close()
		return nil, err
	}

	return &Kiosk{
		cfg:          cfg,
		log:          cfg.Logger,
		enrollments:  enrollments,
		recognitions: recognitions,
	}, nil
}

// OpenEnrollment starts a new enrollment dialog.
func (k *Kiosk) OpenEnrollment() (string, workflow.EnrollmentSnapshot) {
	e := workflow.NewEnrollment(workflow.EnrollmentConfig{
		Device:   k.cfg.Device,
		Members:  k.cfg.Members,
		Clock:    k.cfg.Clock,
		Logger:   k.log,
		Observer: k.cfg.Observer,
	})
	e.Open()
	id := k.enrollments.Add(e)
	k.log.Info("enrollment opened", "session_id", id)
	return id, e.Snapshot()
}

func (k *Kiosk) Enrollment(id string) (*workflow.Enrollment, error) {
	return k.enrollments.Get(id)
}

func (k *Kiosk) CloseEnrollment(id string) error {
	return k.enrollments.Delete(id)
}

// StartRecognition mounts a recognition view. A roster fetch failure does
// not prevent the session; it shows up in the snapshot's last_error.
func (k *Kiosk) StartRecognition(ctx context.Context) (string, workflow.RecognitionSnapshot) {
	r := workflow.NewRecognition(workflow.RecognitionConfig{
		Device:   k.cfg.Device,
		Members:  k.cfg.Members,
		Access:   k.cfg.AccessLog,
		Clock:    k.cfg.Clock,
		Rand:     k.nextRand(),
		Logger:   k.log,
		Observer: k.cfg.Observer,
	})
	_ = r.Mount(ctx)
	id := k.recognitions.Add(r)
	k.log.Info("recognition started", "session_id", id)
	return id, r.Snapshot()
}

func (k *Kiosk) Recognition(id string) (*workflow.Recognition, error) {
	return k.recognitions.Get(id)
}

func (k *Kiosk) EndRecognition(id string) error {
	r, err := k.recognitions.Get(id)
	if err != nil {
		return err
	}
	if err := k.recognitions.Delete(id); err != nil {
		return err
	}
	r.Wait()
	return nil
}

// Close ends every live session and waits for pending writes.
func (k *Kiosk) Close() {
	k.enrollments.Close()
	k.recognitions.Close()
}

func (k *Kiosk) nextRand() workflow.Rand {
	n := k.seq.Add(1)
	if k.cfg.Seed == 0 {
		return workflow.NewRand(rand.Uint64())
	}
	return workflow.NewRand(k.cfg.Seed + n)
}
