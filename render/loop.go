package render

import (
	"time"

	"spincube/input"
)

// Loop ties the renderer to a rotation tracker. The host calls Tick once per
// display refresh.
type Loop struct {
	r       *Renderer
	tracker *input.Tracker

	frames uint64
	last   time.Duration
	xf     Transforms
}

// NewLoop returns a loop drawing r with the rotation held by t.
func NewLoop(r *Renderer, t *input.Tracker) *Loop {
	return &Loop{r: r, tracker: t}
}

// Tick recomputes the transforms from the current rotation and the surface
// size, then draws one frame. Pointer samples applied before the call are
// visible in this frame.
func (l *Loop) Tick(elapsed time.Duration) error {
	w, h := l.r.Surface().Size()
	l.xf = ComputeTransforms(l.tracker.Rotation(), Aspect(w, h))
	if err := l.r.Draw(l.xf); err != nil {
		return err
	}
	l.frames++
	l.last = elapsed
	return nil
}

// Frames is the number of frames drawn so far.
func (l *Loop) Frames() uint64 { return l.frames }

// Last is the elapsed time passed to the most recent successful Tick.
func (l *Loop) Last() time.Duration { return l.last }

// Transforms returns the matrices used by the most recent frame.
func (l *Loop) Transforms() Transforms { return l.xf }
