package softgl

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xFF} }

// RGBA returns a color with explicit alpha.
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// ColorF converts normalized channels to a Color, clamping each to [0,1].
func ColorF(r, g, b, a float32) Color {
	return Color{R: unorm8(r), G: unorm8(g), B: unorm8(b), A: unorm8(a)}
}

func unorm8(v float32) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}
