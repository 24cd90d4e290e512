package game

import (
	"time"

	"voxel-engine/internal/config"
)

const (
	// idleFPS caps the frame rate while the window is unfocused.
	idleFPS = 15

	spinWindow = 200 * time.Microsecond
)

// FPSLimiter paces the viewer's frame loop
type FPSLimiter struct {
	limit func() int
	next  time.Time
}

// NewFPSLimiter creates a limiter that follows config.GetFPSLimit.
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{limit: config.GetFPSLimit}
}

// Wait blocks until the next frame is due. A non-positive limit disables
// pacing. Sleeps until close to the deadline, then spins for precision.
func (f *FPSLimiter) Wait(idle bool) {
	fps := f.limit()
	if idle && (fps <= 0 || fps > idleFPS) {
		fps = idleFPS
	}

	if fps <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(fps)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			time.Sleep(remaining - spinWindow)
		}
	}

	// Resync after a hitch instead of rushing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
