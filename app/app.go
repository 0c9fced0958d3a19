// Package app wires the host HAL to the rotation tracker and the frame loop.
package app

import (
	"fmt"

	"spincube/hal"
	"spincube/input"
	"spincube/render"
	"spincube/softgl"
)

// Config selects the optional app features. The zero value draws the plain
// cube with no overlay.
type Config struct {
	HUD            bool
	Reupload       bool
	ReleaseOnLeave bool
	Verbose        bool
}

// New bootstraps the renderer on the HAL framebuffer and returns the per-frame
// step. Startup failures are returned as-is and are fatal to the caller.
func New(h hal.HAL, cfg Config) (func() error, error) {
	s, err := newSystem(h, cfg)
	if err != nil {
		return nil, err
	}
	return s.guardedStep, nil
}

type system struct {
	h       hal.HAL
	cfg     Config
	fb      hal.Framebuffer
	surface *fbSurface
	tracker *input.Tracker
	loop    *render.Loop
	events  <-chan hal.PointerEvent
	hud     *hud
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	s := &system{
		h:       h,
		cfg:     cfg,
		tracker: &input.Tracker{ReleaseOnLeave: cfg.ReleaseOnLeave},
	}

	var surface softgl.Surface
	if disp := h.Display(); disp != nil {
		s.fb = disp.Framebuffer()
	}
	if s.fb != nil {
		if s.fb.Format() != hal.PixelFormatRGB565 {
			return nil, fmt.Errorf("app: pixel format %d: %w", s.fb.Format(), render.ErrNoSurface)
		}
		s.surface = &fbSurface{fb: s.fb}
		s.surface.sync()
		surface = s.surface
	}

	r, err := render.New(surface, render.Options{
		ReuploadEachFrame: cfg.Reupload,
		Logger:            h.Logger(),
		Verbose:           cfg.Verbose,
	})
	if err != nil {
		return nil, err
	}
	s.loop = render.NewLoop(r, s.tracker)

	if in := h.Input(); in != nil {
		if p := in.Pointer(); p != nil {
			s.events = p.Events()
		}
	}
	if cfg.HUD {
		s.hud = newHUD(s.fb)
	}
	return s, nil
}

func (s *system) step() error {
	s.drainPointer()
	s.surface.sync()

	var elapsed = s.loop.Last()
	if t := s.h.Time(); t != nil {
		elapsed = t.Elapsed()
	}
	if err := s.loop.Tick(elapsed); err != nil {
		return err
	}
	if s.hud != nil {
		s.hud.draw(s.tracker.Rotation(), s.loop.Frames())
	}
	return s.fb.Present()
}

func (s *system) drainPointer() {
	if s.events == nil {
		return
	}
	for {
		select {
		case ev := <-s.events:
			if sample, ok := sampleFromEvent(ev); ok {
				s.tracker.Apply(sample)
			}
		default:
			return
		}
	}
}

func sampleFromEvent(ev hal.PointerEvent) (input.Sample, bool) {
	var phase input.Phase
	switch ev.Action {
	case hal.PointerDown:
		phase = input.Down
	case hal.PointerUp:
		phase = input.Up
	case hal.PointerMove:
		phase = input.Move
	case hal.PointerLeave:
		phase = input.Leave
	default:
		return input.Sample{}, false
	}
	if ev.Source == hal.PointerTouch {
		pts := make([]input.Point, len(ev.Touches))
		for i, tp := range ev.Touches {
			pts[i] = input.Point{X: tp.X, Y: tp.Y}
		}
		return input.TouchSample(phase, pts)
	}
	return input.MouseSample(phase, ev.X, ev.Y), true
}

// fbSurface draws into a HAL framebuffer. sync picks up a resized buffer.
type fbSurface struct {
	fb hal.Framebuffer
	softgl.RGB565Surface
}

func (f *fbSurface) sync() {
	f.RGB565Surface = softgl.RGB565Surface{
		Buf:    f.fb.Buffer(),
		Stride: f.fb.StrideBytes(),
		W:      f.fb.Width(),
		H:      f.fb.Height(),
	}
}
