// Package display reports monitor geometry used to size the annotation window.
package display

import (
	"errors"
	"image"
)

// Monitor describes one output in the current desktop layout.
type Monitor struct {
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = errors.New("no monitors available")

// listMonitors is replaced in tests.
var listMonitors = monitors

// Primary returns the primary monitor, or the first one when none is flagged.
func Primary() (Monitor, error) {
	ms, err := listMonitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(ms) == 0 {
		return Monitor{}, errNoMonitors
	}
	for _, m := range ms {
		if m.Primary {
			return m, nil
		}
	}
	return ms[0], nil
}

// WindowSize picks a window size for a page of the given aspect ratio
// (width/height). The window takes 85% of the primary monitor's height plus
// the chrome around the page. fallback is returned when no monitor is known.
func WindowSize(aspect float64, chrome image.Point, fallback image.Point) image.Point {
	m, err := Primary()
	if err != nil || aspect <= 0 {
		return fallback
	}
	h := m.Rect.Dy() * 85 / 100
	pageH := h - chrome.Y
	if pageH <= 0 {
		return fallback
	}
	w := int(float64(pageH)*aspect) + chrome.X
	if maxW := m.Rect.Dx() * 9 / 10; w > maxW {
		w = maxW
	}
	return image.Pt(w, h)
}
