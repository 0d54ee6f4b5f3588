// Package render draws document pages, their ink and the chrome around them.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/pdfannotations/internal/document"
)

// PageColor is the fill used for page cards.
var PageColor = color.RGBA{255, 255, 255, 255}

// Viewport maps a page's user space onto a pixel rectangle. PDF y grows
// upwards; pixel y grows downwards.
type Viewport struct {
	Box  document.Box
	Rect image.Rectangle
}

// FitViewport centres box inside area, preserving its aspect ratio.
func FitViewport(box document.Box, area image.Rectangle) Viewport {
	if box.Width() <= 0 || box.Height() <= 0 || area.Empty() {
		return Viewport{Box: box, Rect: area}
	}
	scale := math.Min(float64(area.Dx())/box.Width(), float64(area.Dy())/box.Height())
	w := int(math.Round(box.Width() * scale))
	h := int(math.Round(box.Height() * scale))
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	return Viewport{Box: box, Rect: image.Rect(x, y, x+w, y+h)}
}

// Scale returns pixels per point.
func (v Viewport) Scale() float64 {
	if v.Box.Width() <= 0 {
		return 1
	}
	return float64(v.Rect.Dx()) / v.Box.Width()
}

// ToPixel converts a page point to window pixels.
func (v Viewport) ToPixel(p document.Point) image.Point {
	s := v.Scale()
	x := float64(v.Rect.Min.X) + (p.X-v.Box.Min.X)*s
	y := float64(v.Rect.Max.Y) - (p.Y-v.Box.Min.Y)*s
	return image.Pt(int(math.Round(x)), int(math.Round(y)))
}

// ToPage converts window pixels to a page point.
func (v Viewport) ToPage(pt image.Point) document.Point {
	s := v.Scale()
	return document.Point{
		X: v.Box.Min.X + float64(pt.X-v.Rect.Min.X)/s,
		Y: v.Box.Min.Y + float64(v.Rect.Max.Y-pt.Y)/s,
	}
}

// Contains reports whether pt falls on the page.
func (v Viewport) Contains(pt image.Point) bool { return pt.In(v.Rect) }

// DrawInk composites ink onto dst at its opacity. Overlapping parts of the
// same stroke do not darken each other.
func DrawInk(dst *image.RGBA, vp Viewport, ink document.Ink) {
	s := vp.Scale()
	r := ink.Width * s / 2
	pad := int(math.Ceil(r)) + 1
	for _, path := range ink.Paths {
		if len(path) == 0 {
			continue
		}
		pts := make([]image.Point, len(path))
		bounds := image.Rectangle{}
		for i, p := range path {
			pts[i] = vp.ToPixel(p)
			pr := image.Rectangle{Min: pts[i], Max: pts[i].Add(image.Pt(1, 1))}
			if i == 0 {
				bounds = pr
			} else {
				bounds = bounds.Union(pr)
			}
		}
		bounds = bounds.Inset(-pad).Intersect(dst.Bounds())
		if bounds.Empty() {
			continue
		}
		mask := image.NewAlpha(bounds)
		strokeMask(mask, pts, r)
		opacity := ink.Opacity
		if opacity <= 0 || opacity > 1 {
			opacity = 1
		}
		src := color.NRGBA{R: ink.Color.R, G: ink.Color.G, B: ink.Color.B, A: uint8(opacity*255 + 0.5)}
		draw.DrawMask(dst, bounds, image.NewUniform(src), image.Point{}, mask, bounds.Min, draw.Over)
	}
}

// PageImage renders a white page of the given pixel width with its ink.
func PageImage(box document.Box, inks []document.Ink, width int) *image.RGBA {
	if width < 1 {
		width = 1
	}
	height := width
	if box.Width() > 0 {
		height = int(math.Round(float64(width) * box.Height() / box.Width()))
	}
	if height < 1 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(PageColor), image.Point{}, draw.Src)
	vp := Viewport{Box: box, Rect: img.Bounds()}
	for _, ink := range inks {
		DrawInk(img, vp, ink)
	}
	return img
}
