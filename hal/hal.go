package hal

import "time"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// The host may resize it between frames; callers re-read the geometry and
// Buffer each frame.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// PointerSource tells mouse events from touch events.
type PointerSource uint8

const (
	PointerMouse PointerSource = iota
	PointerTouch
)

// PointerAction is what happened to the pointer.
type PointerAction uint8

const (
	PointerDown PointerAction = iota
	PointerUp
	PointerMove
	PointerLeave
)

// TouchPoint is one changed touch in surface pixels.
type TouchPoint struct {
	ID   int
	X, Y float64
}

// PointerEvent is a pointer event in surface pixels. Touch events carry the
// changed touches in Touches; X and Y are only meaningful for the mouse.
type PointerEvent struct {
	Source  PointerSource
	Action  PointerAction
	X, Y    float64
	Touches []TouchPoint
}

// Pointer provides pointer events (best-effort on each platform).
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Pointer() Pointer
}

// Time reports time elapsed since the host started ticking.
type Time interface {
	Elapsed() time.Duration
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
