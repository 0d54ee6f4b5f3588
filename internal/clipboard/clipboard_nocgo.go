//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

// Package clipboard publishes page images and paths to the system clipboard.
package clipboard

import (
	"errors"
	"image"
	"os"
	"sync"
)

var (
	initOnce       sync.Once
	initErr        error
	errNoDisplay   = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errCGODisabled = errors.New("clipboard operations require cgo support")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = errCGODisabled
	})
	return initErr
}

// WriteImage always fails without cgo.
func WriteImage(image.Image) error { return ensureInit() }

// WriteText always fails without cgo.
func WriteText(string) error { return ensureInit() }
