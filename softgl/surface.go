package softgl

import (
	"image"
	"image/color"
)

// Surface is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Surface interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// RGB565Surface renders into an RGB565 framebuffer.
//
// Callers provide the backing buffer and layout (stride).
type RGB565Surface struct {
	Buf    []byte
	Stride int // bytes per row
	W      int
	H      int
}

func (s *RGB565Surface) Size() (w, h int) { return s.W, s.H }

func (s *RGB565Surface) Clear(c Color) {
	if s == nil || s.Buf == nil || s.Stride <= 0 || s.W <= 0 || s.H <= 0 {
		return
	}
	p := rgb565From888(c.R, c.G, c.B)
	lo := byte(p)
	hi := byte(p >> 8)
	for y := 0; y < s.H; y++ {
		row := y * s.Stride
		for x := 0; x < s.W; x++ {
			off := row + x*2
			if off < 0 || off+1 >= len(s.Buf) {
				continue
			}
			s.Buf[off] = lo
			s.Buf[off+1] = hi
		}
	}
}

func (s *RGB565Surface) SetPixel(x, y int, c Color) {
	if s == nil || s.Buf == nil {
		return
	}
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return
	}
	off := y*s.Stride + x*2
	if off < 0 || off+1 >= len(s.Buf) {
		return
	}
	p := rgb565From888(c.R, c.G, c.B)
	s.Buf[off] = byte(p)
	s.Buf[off+1] = byte(p >> 8)
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

// ImageSurface renders into an *image.RGBA at full precision.
type ImageSurface struct {
	Img *image.RGBA
}

// NewImageSurface allocates a w×h RGBA surface.
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (s *ImageSurface) Size() (w, h int) {
	if s == nil || s.Img == nil {
		return 0, 0
	}
	b := s.Img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) SetPixel(x, y int, c Color) {
	if s == nil || s.Img == nil {
		return
	}
	b := s.Img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return
	}
	s.Img.SetRGBA(b.Min.X+x, b.Min.Y+y, color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

func (s *ImageSurface) Clear(c Color) {
	if s == nil || s.Img == nil {
		return
	}
	pix := s.Img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// At returns the color at (x, y).
func (s *ImageSurface) At(x, y int) Color {
	b := s.Img.Bounds()
	c := s.Img.RGBAAt(b.Min.X+x, b.Min.Y+y)
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
