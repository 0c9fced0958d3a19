package hal

import "testing"

func TestRGB565RoundTripExtremes(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0, 0, 0, 0x0000},
		{255, 255, 255, 0xFFFF},
		{255, 0, 0, 0xF800},
		{0, 255, 0, 0x07E0},
		{0, 0, 255, 0x001F},
	}
	for _, tt := range tests {
		p := rgb565(tt.r, tt.g, tt.b)
		if p != tt.want {
			t.Fatalf("rgb565(%d,%d,%d)=%#04x want %#04x", tt.r, tt.g, tt.b, p, tt.want)
		}
		r, g, b := rgb888From565(p)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Fatalf("rgb888From565(%#04x)=(%d,%d,%d)", p, r, g, b)
		}
	}
}

func TestRGB565Gray(t *testing.T) {
	r, g, b := rgb888From565(rgb565(153, 153, 153))
	// 5-bit channels widen back to 156.
	if r != 156 || g != 153 || b != 156 {
		t.Fatalf("gray=(%d,%d,%d)", r, g, b)
	}
}
