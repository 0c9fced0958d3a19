//go:build cgo || js

package hal

import (
	"image"

	"spincube/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the window (or browser canvas) runner.
type WindowConfig struct {
	Width  int
	Height int
	Hz     int
}

// RunWindow opens a resizable window that displays the framebuffer and
// forwards pointer input. The framebuffer follows the window size. After a
// step fails the window keeps showing the last frame and the error is returned
// once it closes.
func RunWindow(newApp func(HAL) (func() error, error), cfg WindowConfig) error {
	h := newHostHAL(cfg.Width, cfg.Height)
	step, err := newApp(h)
	if err != nil {
		return err
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("spincube (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.Width(), h.fb.Height())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Hz)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.err
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
	err     error

	outW, outH int
}

func (g *hostGame) Update() error {
	fb := g.h.fb
	if g.outW > 0 && g.outH > 0 {
		fb.resize(g.outW, g.outH)
	}
	g.h.ptr.poll(fb.Width(), fb.Height())
	g.h.t.step()
	if g.step != nil && g.err == nil {
		if err := g.step(); err != nil {
			g.err = err
			g.h.logger.WriteLineString("frame loop stopped: " + err.Error())
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	var w, h int
	g.scratch, w, h = g.h.fb.snapshotRGB565(g.scratch)
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	rgba(g.img, g.scratch)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.h.fb.Width(), g.h.fb.Height()
	}
	g.outW, g.outH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
