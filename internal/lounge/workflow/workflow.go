// Package workflow holds the two lounge state machines: enrollment of a new
// member and recognition at the door. Each instance serializes its
// transitions through one mutex and owns its timers and capture handle.
package workflow

import (
	"errors"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/capture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

var (
	ErrClosed             = errors.New("workflow closed")
	ErrInvalidState       = errors.New("operation not allowed in current state")
	ErrInvalidForm        = errors.New("invalid enrollment form")
	ErrCaptureUnavailable = errors.New("capture unavailable")
	ErrCameraInactive     = errors.New("camera is not active")
	ErrScanInProgress     = errors.New("scan already in progress")
	ErrStoreFailed        = errors.New("member store failed")
)

const (
	AcquireDelay = 300 * time.Millisecond
	ScanDuration = 2500 * time.Millisecond
	CapturedHold = 1200 * time.Millisecond

	// PortraitSize is the side of the square enrollment portrait.
	PortraitSize = 480

	// backgroundTimeout bounds each fire-and-forget store write.
	backgroundTimeout = 10 * time.Second
	acquireTimeout    = 10 * time.Second
)

// MatchThreshold is the draw a scan must exceed to count as a match.
const MatchThreshold = 0.2

var (
	EnrollmentConstraints  = capture.Constraints{Facing: capture.FacingUser, Width: 480, Height: 480}
	RecognitionConstraints = capture.Constraints{Facing: capture.FacingUser, Width: 640, Height: 480}
)

// Observer receives workflow events for metrics. Methods are called with
// the workflow lock held and must not block.
type Observer interface {
	CaptureFailed(workflow string)
	MemberEnrolled()
	ScanResolved(outcome types.AccessOutcome)
}

type nopObserver struct{}

func (nopObserver) CaptureFailed(string) {}
func (nopObserver) MemberEnrolled() {}
func (nopObserver) ScanResolved(types.AccessOutcome) {}
