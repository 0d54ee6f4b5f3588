package appstate

import (
	"image"
	"math"

	"github.com/example/pdfannotations/internal/document"
	"github.com/example/pdfannotations/internal/render"
)

const (
	toolbarHeight = 44
	buttonSize    = 40
	stripHeight   = render.ThumbnailHeight + 10
	pageMargin    = 16
	swatchSize    = 36
)

// frameLayout holds the window regions for one window size.
type frameLayout struct {
	width, height int
	toolbar       image.Rectangle
	pageArea      image.Rectangle
	strip         image.Rectangle
	palette       image.Rectangle
	swatch        image.Point
	saveSpinner   image.Point
}

// layoutWindow places the toolbar buttons and returns the window regions.
// It must run on the window goroutine.
func (s *Screen) layoutWindow(width, height int) frameLayout {
	l := frameLayout{width: width, height: height}
	l.toolbar = image.Rect(0, 0, width, toolbarHeight)
	l.strip = image.Rect(0, height-stripHeight, width, height)
	l.pageArea = image.Rect(0, toolbarHeight, width, height-stripHeight)

	s.mu.Lock()
	defer s.mu.Unlock()
	x := 2
	for _, b := range s.toolButtons {
		b.SetRect(image.Rect(x, 2, x+buttonSize, 2+buttonSize))
		x += buttonSize + 2
	}
	x += 8
	if s.paletteButton != nil {
		s.paletteButton.SetRect(image.Rect(x, 2, x+buttonSize, 2+buttonSize))
		l.palette = image.Rect(x, toolbarHeight, x+len(s.colorButtons)*(swatchSize+6)+6, toolbarHeight+swatchSize+12)
		cx := l.palette.Min.X + 6
		for _, b := range s.colorButtons {
			b.SetRect(image.Rect(cx, l.palette.Min.Y+6, cx+swatchSize, l.palette.Min.Y+6+swatchSize))
			cx += swatchSize + 6
		}
		x += buttonSize + 2
	}
	l.swatch = image.Pt(x+buttonSize/2, toolbarHeight/2)
	if s.saveButton != nil {
		r := image.Rect(width-buttonSize-2, 2, width-2, 2+buttonSize)
		s.saveButton.SetRect(r)
		l.saveSpinner = r.Min.Add(r.Max).Div(2)
	}
	return l
}

// pageViewport fits the page to the area's width and shifts it up by
// scroll points.
func pageViewport(box document.Box, area image.Rectangle, scroll float64) render.Viewport {
	inner := area.Inset(pageMargin)
	if box.Width() <= 0 || inner.Empty() {
		return render.Viewport{Box: box, Rect: inner}
	}
	scale := float64(inner.Dx()) / box.Width()
	h := int(math.Round(box.Height() * scale))
	y := inner.Min.Y - int(math.Round(scroll*scale))
	return render.Viewport{Box: box, Rect: image.Rect(inner.Min.X, y, inner.Max.X, y+h)}
}

// maxScroll is how far, in points, the page can scroll inside area.
func maxScroll(box document.Box, area image.Rectangle) float64 {
	inner := area.Inset(pageMargin)
	if box.Width() <= 0 || inner.Empty() {
		return 0
	}
	scale := float64(inner.Dx()) / box.Width()
	over := box.Height()*scale - float64(inner.Dy())
	if over <= 0 {
		return 0
	}
	return over / scale
}

const (
	stripPad  = 8
	thumbStep = render.ThumbnailWidth + 6
)

// stripOffset scrolls the thumbnail strip so the current page's cell stays
// visible, centred when the strip can move that far.
func stripOffset(strip image.Rectangle, pages, current int) int {
	content := 2*stripPad + pages*thumbStep - (thumbStep - render.ThumbnailWidth)
	over := content - strip.Dx()
	if over <= 0 {
		return 0
	}
	off := stripPad + current*thumbStep + render.ThumbnailWidth/2 - strip.Dx()/2
	if off < 0 {
		return 0
	}
	if off > over {
		return over
	}
	return off
}

// thumbRect is the strip cell of page i with the strip scrolled by offset
// pixels.
func thumbRect(strip image.Rectangle, i, offset int) image.Rectangle {
	x := strip.Min.X + stripPad + i*thumbStep - offset
	y := strip.Min.Y + (strip.Dy()-render.ThumbnailHeight)/2
	return image.Rect(x, y, x+render.ThumbnailWidth, y+render.ThumbnailHeight)
}
