package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Width   int
	Height  int
	// Out, when set, receives the last frame as a PNG once Ticks is reached.
	Out string
	// Script is fed to the pointer queue one event per tick, before the step.
	Script []PointerEvent
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) (func() error, error), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHostHAL(cfg.Width, cfg.Height)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	t := time.NewTicker(d)
	defer t.Stop()

	script := cfg.Script
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if len(script) > 0 {
				h.ptr.push(script[0])
				script = script[1:]
			}
			if tick > 0 {
				h.t.advance(d)
			}
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				if cfg.Out != "" {
					return writePNG(cfg.Out, h.fb)
				}
				return nil
			}
		}
	}
}

func writePNG(path string, fb *hostFramebuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if err := png.Encode(f, fb.image()); err != nil {
		f.Close()
		return fmt.Errorf("write frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
