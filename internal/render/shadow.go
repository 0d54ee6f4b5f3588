package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ShadowOptions configures the drop shadow drawn under page cards.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the card composited over its blurred shadow.
	Image *image.RGBA
	// Offset is where the card's top-left corner landed inside Image.
	Offset image.Point
}

// DefaultShadowOptions returns the shadow used for document pages.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  8,
		Offset:  image.Pt(0, 3),
		Opacity: 0.35,
	}
}

// ApplyShadow composites img over a blurred silhouette of itself. The result
// has a zero origin and grows to fit the shadow.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	src := img.Bounds()
	if src.Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	padded := src.Inset(-radius)
	shadow := padded.Add(opts.Offset)
	canvas := src.Union(shadow)

	silhouette := image.NewNRGBA(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			silhouette.SetNRGBA(x-padded.Min.X, y-padded.Min.Y, color.NRGBA{A: uint8(float64(a)*opacity + 0.5)})
		}
	}
	var blurred image.Image = silhouette
	if radius > 0 {
		blurred = imaging.Blur(silhouette, float64(radius)/2)
	}

	dst := image.NewRGBA(canvas.Sub(canvas.Min))
	draw.Draw(dst, blurred.Bounds().Add(shadow.Min.Sub(canvas.Min)), blurred, blurred.Bounds().Min, draw.Over)
	draw.Draw(dst, src.Sub(canvas.Min), img, src.Min, draw.Over)
	return ShadowResult{Image: dst, Offset: src.Min.Sub(canvas.Min)}
}
