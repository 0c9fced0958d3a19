//go:build cgo || js

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// poll translates this tick's mouse and touch state into events. Coordinates
// are in layout pixels, which match the framebuffer.
func (p *hostPointer) poll(width, height int) {
	mouse := func(a PointerAction, x, y int) {
		p.push(PointerEvent{Source: PointerMouse, Action: a, X: float64(x), Y: float64(y)})
	}

	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < width && y < height
	switch {
	case p.inside && !inside:
		mouse(PointerLeave, x, y)
	case inside && (!p.seen || x != p.lastX || y != p.lastY):
		mouse(PointerMove, x, y)
	}
	p.inside = inside
	p.seen = true
	p.lastX, p.lastY = x, y

	// Buttons only count over the surface, like canvas listeners.
	if inside {
		for _, b := range mouseButtons {
			if inpututil.IsMouseButtonJustPressed(b) {
				mouse(PointerDown, x, y)
			}
		}
		for _, b := range mouseButtons {
			if inpututil.IsMouseButtonJustReleased(b) {
				mouse(PointerUp, x, y)
			}
		}
	}

	p.pollTouches()
}

func (p *hostPointer) pollTouches() {
	touch := func(a PointerAction, pts []TouchPoint) {
		if len(pts) == 0 {
			return
		}
		p.push(PointerEvent{Source: PointerTouch, Action: a, X: pts[0].X, Y: pts[0].Y, Touches: pts})
	}
	point := func(id ebiten.TouchID, x, y int) TouchPoint {
		return TouchPoint{ID: int(id), X: float64(x), Y: float64(y)}
	}

	var started []TouchPoint
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		started = append(started, point(id, x, y))
	}

	var moved []TouchPoint
	for _, id := range ebiten.AppendTouchIDs(nil) {
		if inpututil.TouchPressDuration(id) <= 1 {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if x != px || y != py {
			moved = append(moved, point(id, x, y))
		}
	}

	var ended []TouchPoint
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		ended = append(ended, point(id, x, y))
	}

	touch(PointerDown, started)
	touch(PointerMove, moved)
	touch(PointerUp, ended)
}
