package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
)

// guardedStep runs one frame and turns a panic into an error. Any failure is
// logged and painted over the framebuffer before it is returned.
func (s *system) guardedStep() (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("app: panic: %v", v)
			s.fault(err, debug.Stack())
		}
	}()
	if err = s.step(); err != nil {
		s.fault(err, nil)
	}
	return err
}

func (s *system) fault(err error, stack []byte) {
	lines := []string{"spincube fault:", err.Error()}
	for _, line := range strings.Split(string(stack), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	if l := s.h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}
	if s.fb == nil {
		return
	}

	s.fb.ClearRGB(255, 255, 255)
	d := fbDisplay{fb: s.fb}
	font := &proggyFont
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		_ = s.fb.Present()
		return
	}
	cols := int16(s.fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}
	maxH := int16(s.fb.Height())
	fg := color.RGBA{R: 0, G: 0, B: 0, A: 255}

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+hudLineHeight > maxH {
				_ = s.fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 0, y+hudLineHeight-3, chunk, fg)
			y += hudLineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = s.fb.Present()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
