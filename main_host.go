package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"spincube/app"
	"spincube/hal"
	"spincube/internal/buildinfo"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var drag string
	var version bool
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Frame rate.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N frames in headless mode (0 = run forever).")
	flag.IntVar(&cfg.Width, "width", hal.DefaultWidth, "Initial surface width.")
	flag.IntVar(&cfg.Height, "height", hal.DefaultHeight, "Initial surface height.")
	flag.StringVar(&cfg.Out, "out", "", "Write the last headless frame to this PNG file.")
	flag.StringVar(&drag, "drag", "", "Headless scripted drag: x0,y0,x1,y1[,steps].")
	flag.BoolVar(&appCfg.HUD, "hud", false, "Overlay rotation angles and frame count.")
	flag.BoolVar(&appCfg.Reupload, "reupload", false, "Re-upload vertex data every frame.")
	flag.BoolVar(&appCfg.ReleaseOnLeave, "release-on-leave", false, "End a drag when the pointer leaves the surface.")
	flag.BoolVar(&appCfg.Verbose, "v", false, "Log startup steps.")
	flag.BoolVar(&version, "version", false, "Print the build identity and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	newApp := func(h hal.HAL) (func() error, error) {
		return app.New(h, appCfg)
	}

	if cfg.Enabled {
		if drag != "" {
			script, err := parseDrag(drag)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			cfg.Script = script
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, hal.WindowConfig{Width: cfg.Width, Height: cfg.Height, Hz: cfg.Hz}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseDrag(s string) ([]hal.PointerEvent, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return nil, fmt.Errorf("-drag: want x0,y0,x1,y1[,steps], got %q", s)
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("-drag: %w", err)
		}
		v[i] = f
	}
	steps := 10
	if len(parts) == 5 {
		n, err := strconv.Atoi(strings.TrimSpace(parts[4]))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("-drag: bad steps %q", parts[4])
		}
		steps = n
	}
	return hal.MouseDrag(v[0], v[1], v[2], v[3], steps), nil
}
