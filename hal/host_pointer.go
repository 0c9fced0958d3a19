package hal

const pointerQueueLen = 256

type hostPointer struct {
	ch chan PointerEvent

	// Window polling state.
	lastX, lastY int
	inside       bool
	seen         bool
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, pointerQueueLen)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

// push queues ev, dropping it when the consumer has fallen behind.
func (p *hostPointer) push(ev PointerEvent) bool {
	select {
	case p.ch <- ev:
		return true
	default:
		return false
	}
}

// MouseDrag scripts a left-button drag from (x0, y0) to (x1, y1): a move to
// the start, a press, steps moves along the line, then a release.
func MouseDrag(x0, y0, x1, y1 float64, steps int) []PointerEvent {
	if steps < 1 {
		steps = 1
	}
	evs := make([]PointerEvent, 0, steps+3)
	evs = append(evs,
		PointerEvent{Source: PointerMouse, Action: PointerMove, X: x0, Y: y0},
		PointerEvent{Source: PointerMouse, Action: PointerDown, X: x0, Y: y0},
	)
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		evs = append(evs, PointerEvent{
			Source: PointerMouse,
			Action: PointerMove,
			X:      x0 + (x1-x0)*f,
			Y:      y0 + (y1-y0)*f,
		})
	}
	evs = append(evs, PointerEvent{Source: PointerMouse, Action: PointerUp, X: x1, Y: y1})
	return evs
}
