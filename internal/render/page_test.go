package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/example/pdfannotations/internal/document"
)

var letter = document.Box{Max: document.Point{X: 612, Y: 792}}

func TestFitViewportKeepsAspect(t *testing.T) {
	vp := FitViewport(letter, image.Rect(0, 0, 1000, 792))
	if vp.Rect.Dy() != 792 || vp.Rect.Dx() != 612 {
		t.Fatalf("unexpected rect %v", vp.Rect)
	}
	if vp.Rect.Min.X != (1000-612)/2 {
		t.Fatalf("page not centred: %v", vp.Rect)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	vp := FitViewport(letter, image.Rect(40, 20, 346, 416))
	for _, p := range []document.Point{{X: 0, Y: 0}, {X: 306, Y: 396}, {X: 612, Y: 792}, {X: 100, Y: 700}} {
		px := vp.ToPixel(p)
		back := vp.ToPage(px)
		if math.Abs(back.X-p.X) > 2/vp.Scale() || math.Abs(back.Y-p.Y) > 2/vp.Scale() {
			t.Errorf("round trip %v -> %v -> %v", p, px, back)
		}
	}
	if got := vp.ToPixel(document.Point{X: 0, Y: 0}); got != image.Pt(vp.Rect.Min.X, vp.Rect.Max.Y) {
		t.Fatalf("page origin should map to bottom-left, got %v", got)
	}
}

func TestPageImageDrawsInk(t *testing.T) {
	ink := document.Ink{
		Paths:   [][]document.Point{{{X: 100, Y: 396}, {X: 500, Y: 396}}},
		Color:   color.RGBA{R: 231, G: 76, B: 60, A: 255},
		Width:   10,
		Opacity: 1,
	}
	img := PageImage(letter, []document.Ink{ink}, 612)
	if img.Bounds().Dx() != 612 || img.Bounds().Dy() != 792 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
	if got := img.RGBAAt(300, 396); got != ink.Color {
		t.Fatalf("stroke pixel = %+v, want %+v", got, ink.Color)
	}
	if got := img.RGBAAt(300, 100); got != PageColor {
		t.Fatalf("background pixel = %+v", got)
	}
}

func TestDrawInkBlendsOpacity(t *testing.T) {
	ink := document.Ink{
		Paths:   [][]document.Point{{{X: 100, Y: 396}, {X: 300, Y: 396}, {X: 100, Y: 396}}},
		Color:   color.RGBA{R: 241, G: 196, B: 15, A: 255},
		Width:   10,
		Opacity: 0.3,
	}
	img := PageImage(letter, []document.Ink{ink}, 612)
	got := img.RGBAAt(200, 396)
	if got.B == 15 || got.B == 255 {
		t.Fatalf("expected blended blue channel, got %+v", got)
	}
	want := uint8(255 - math.Round(0.3*float64(255-15)))
	if d := int(got.B) - int(want); d < -2 || d > 2 {
		t.Fatalf("overlapping segments darkened the stroke: B=%d want ~%d", got.B, want)
	}
}

func TestThumbnailSizeAndBackground(t *testing.T) {
	page := PageImage(letter, nil, 200)
	thumb := Thumbnail(page, ThumbnailWidth, ThumbnailHeight)
	if b := thumb.Bounds(); b.Dx() != ThumbnailWidth || b.Dy() != ThumbnailHeight {
		t.Fatalf("thumbnail bounds %v", b)
	}
	corner := thumb.NRGBAAt(0, 0)
	if corner.R != ThumbnailBackground.Y || corner.A != 255 {
		t.Fatalf("corner should be background, got %+v", corner)
	}
	mid := thumb.NRGBAAt(ThumbnailWidth/2, ThumbnailHeight/2)
	if mid.R != 255 {
		t.Fatalf("centre should show the white page, got %+v", mid)
	}
}

func TestDrawLineThickness(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	DrawLine(img, 2, 10, 17, 10, color.Black, 3)
	for _, y := range []int{9, 10, 11} {
		if img.RGBAAt(10, y).A == 0 {
			t.Fatalf("expected ink at y=%d", y)
		}
	}
	if img.RGBAAt(10, 13).A != 0 {
		t.Fatal("line thicker than requested")
	}
}
