//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

// Package clipboard publishes page images and paths to the system clipboard.
package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard is not supported on this platform")

func WriteImage(image.Image) error { return errUnsupported }

func WriteText(string) error { return errUnsupported }
