package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	ptr    *hostPointer
	t      *hostTime
}

// New returns a host HAL with a width×height framebuffer. Non-positive sizes
// fall back to DefaultWidth×DefaultHeight.
func New(width, height int) HAL {
	return newHostHAL(width, height)
}

func newHostHAL(width, height int) *hostHAL {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     newHostFramebuffer(width, height),
		ptr:    newHostPointer(),
		t:      newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{ptr: h.ptr} }
func (h *hostHAL) Time() Time       { return h.t }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	ptr *hostPointer
}

func (in hostInput) Pointer() Pointer { return in.ptr }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
