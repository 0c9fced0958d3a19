// Package input turns pointer and touch events into cube rotation.
package input

// DragScale converts pointer travel in pixels to radians.
const DragScale = 0.016

// Kind tags where a Sample came from.
type Kind uint8

const (
	Mouse Kind = iota
	Touch
)

func (k Kind) String() string {
	if k == Touch {
		return "touch"
	}
	return "mouse"
}

// Phase is the normalized event type.
type Phase uint8

const (
	Down Phase = iota
	Up
	Move
	Leave
)

func (p Phase) String() string {
	switch p {
	case Down:
		return "down"
	case Up:
		return "up"
	case Move:
		return "move"
	case Leave:
		return "leave"
	}
	return "unknown"
}

// Sample is one pointer observation in surface coordinates.
type Sample struct {
	Kind  Kind
	Phase Phase
	X, Y  float64
}

// Point is a touch coordinate.
type Point struct {
	X, Y float64
}

// MouseSample adapts a mouse event with coordinates relative to the surface.
func MouseSample(phase Phase, offsetX, offsetY float64) Sample {
	return Sample{Kind: Mouse, Phase: phase, X: offsetX, Y: offsetY}
}

// TouchSample adapts a touch event using its first changed touch point.
// A move without any changed touch carries no coordinate and is rejected.
func TouchSample(phase Phase, changed []Point) (Sample, bool) {
	s := Sample{Kind: Touch, Phase: phase}
	if len(changed) == 0 {
		return s, phase != Move
	}
	s.X, s.Y = changed[0].X, changed[0].Y
	return s, true
}

// Rotation holds the accumulated model angles in radians.
//
// X is the rotation about the X axis and grows with vertical drags; Y is the
// rotation about the Y axis and grows with horizontal drags.
type Rotation struct {
	X, Y float64
}

// Tracker is the idle/dragging state machine. The zero value is idle with
// zero rotation and a recorded pointer at (0, 0).
//
// A Tracker is owned by a single goroutine.
type Tracker struct {
	// ReleaseOnLeave ends a drag when the pointer leaves the surface.
	// Off by default: a drag keeps accumulating until an up event.
	ReleaseOnLeave bool

	rot      Rotation
	prevX    float64
	prevY    float64
	dragging bool
}

// Apply feeds one sample through the state machine.
func (t *Tracker) Apply(s Sample) {
	switch s.Phase {
	case Down:
		t.dragging = true
	case Up:
		t.dragging = false
	case Leave:
		if t.ReleaseOnLeave {
			t.dragging = false
		}
	case Move:
		dx := (s.X - t.prevX) * DragScale
		dy := (s.Y - t.prevY) * DragScale
		t.prevX, t.prevY = s.X, s.Y
		if t.dragging {
			t.rot.Y += dx
			t.rot.X += dy
		}
	}
}

// Rotation returns the accumulated angles.
func (t *Tracker) Rotation() Rotation { return t.rot }

// Dragging reports whether a drag is in progress.
func (t *Tracker) Dragging() bool { return t.dragging }

// Last returns the most recently recorded pointer coordinate.
func (t *Tracker) Last() (x, y float64) { return t.prevX, t.prevY }
