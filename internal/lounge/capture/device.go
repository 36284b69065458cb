// Package capture models the camera: a Device hands out Streams, and a
// Stream yields frames until it is stopped.
package capture

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrDenied is returned by Acquire when the user or platform refuses
	// camera access.
	ErrDenied = errors.New("camera access denied")
	// ErrStopped is returned by Frame once the stream has been released.
	ErrStopped = errors.New("stream stopped")
)

// FacingUser selects the front camera.
const FacingUser = "user"

// Constraints are the requested capture parameters.
type Constraints struct {
	Facing string
	Width  int
	Height int
}

type Device interface {
	Acquire(ctx context.Context, c Constraints) (Stream, error)
}

// Stream is an acquired capture handle. Stop releases the underlying device
// and is safe to call more than once.
type Stream interface {
	Frame() (image.Image, error)
	Stop()
}
