//go:build !cgo && !js

package hal

import "errors"

// WindowConfig controls the window (or browser canvas) runner.
type WindowConfig struct {
	Width  int
	Height int
	Hz     int
}

func RunWindow(_ func(h HAL) (func() error, error), _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1) or GOOS=js")
}
