package capture

import (
	"context"
	"image"
	"image/color"
	"sync"
)

// Synthetic is a Device that renders a gradient test pattern instead of
// reading hardware. It counts acquisitions and releases so callers can
// check that every handle is given back.
type Synthetic struct {
	mu       sync.Mutex
	denyErr  error
	hook     func(Constraints)
	acquired int
	released int
}

func NewSynthetic() *Synthetic {
	return &Synthetic{}
}

// Deny makes every later Acquire fail with err. A nil err means ErrDenied.
func (d *Synthetic) Deny(err error) {
	if err == nil {
		err = ErrDenied
	}
	d.mu.Lock()
	d.denyErr = err
	d.mu.Unlock()
}

// Allow undoes Deny.
func (d *Synthetic) Allow() {
	d.mu.Lock()
	d.denyErr = nil
	d.mu.Unlock()
}

// OnAcquire registers f to run at the start of every Acquire, before the
// stream is handed out.
func (d *Synthetic) OnAcquire(f func(Constraints)) {
	d.mu.Lock()
	d.hook = f
	d.mu.Unlock()
}

func (d *Synthetic) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	d.mu.Lock()
	hook := d.hook
	d.mu.Unlock()
	if hook != nil {
		hook(c)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.denyErr != nil {
		return nil, d.denyErr
	}
	d.acquired++
	return &syntheticStream{dev: d, c: c}, nil
}

// Acquired is the number of streams handed out.
func (d *Synthetic) Acquired() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquired
}

// Released is the number of streams stopped.
func (d *Synthetic) Released() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// Active is Acquired minus Released.
func (d *Synthetic) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquired - d.released
}

type syntheticStream struct {
	dev     *Synthetic
	c       Constraints
	mu      sync.Mutex
	stopped bool
	frames  int
}

func (s *syntheticStream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrStopped
	}
	s.frames++
	return pattern(s.c.Width, s.c.Height, s.frames), nil
}

func (s *syntheticStream) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.dev.mu.Lock()
	s.dev.released++
	s.dev.mu.Unlock()
}

func pattern(w, h, n int) image.Image {
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: uint8(n * 40),
				A: 255,
			})
		}
	}
	return img
}
