package app

import (
	"fmt"
	"image/color"

	"spincube/hal"
	"spincube/input"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	hudMargin     = 2
	hudLineHeight = 11
)

var proggyFont = proggy.TinySZ8pt7b

var (
	hudFG = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	hudBG = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// hud overlays rotation angles and the frame counter in the top-left corner.
type hud struct {
	d    fbDisplay
	font tinyfont.Fonter
}

func newHUD(fb hal.Framebuffer) *hud {
	return &hud{d: fbDisplay{fb: fb}, font: &proggyFont}
}

func (h *hud) lines(rot input.Rotation, frames uint64) []string {
	return []string{
		fmt.Sprintf("rx %+.3f ry %+.3f", rot.X, rot.Y),
		fmt.Sprintf("frame %d", frames),
	}
}

func (h *hud) draw(rot input.Rotation, frames uint64) {
	var d drivers.Displayer = h.d
	y := int16(hudMargin)
	for _, line := range h.lines(rot, frames) {
		_, w := tinyfont.LineWidth(h.font, line)
		fillRect(h.d, hudMargin-1, y-1, int16(w)+2, hudLineHeight, hudBG)
		tinyfont.WriteLine(d, h.font, hudMargin, y+hudLineHeight-3, line, hudFG)
		y += hudLineHeight
	}
}

func fillRect(d fbDisplay, x0, y0, w, h int16, c color.RGBA) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			d.SetPixel(x, y, c)
		}
	}
}

// fbDisplay adapts a HAL framebuffer to drivers.Displayer.
type fbDisplay struct {
	fb hal.Framebuffer
}

func (d fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d fbDisplay) Display() error { return nil }
