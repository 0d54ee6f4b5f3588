package appstate

import (
	"image"
	"testing"
)

func TestStripOffsetKeepsCurrentPageVisible(t *testing.T) {
	strip := image.Rect(0, 500, 100, 560)
	const pages = 20
	for cur := 0; cur < pages; cur++ {
		off := stripOffset(strip, pages, cur)
		r := thumbRect(strip, cur, off)
		if r.Min.X < strip.Min.X || r.Max.X > strip.Max.X {
			t.Fatalf("page %d thumbnail %v outside strip %v (offset %d)", cur, r, strip, off)
		}
	}
	if off := stripOffset(strip, pages, 0); off != 0 {
		t.Fatalf("first page offset = %d, want 0", off)
	}
	last := thumbRect(strip, pages-1, stripOffset(strip, pages, pages-1))
	if want := strip.Max.X - stripPad; last.Max.X != want {
		t.Fatalf("last thumbnail should sit at the strip end: max x %d, want %d", last.Max.X, want)
	}
}

func TestStripOffsetZeroWhenEverythingFits(t *testing.T) {
	strip := image.Rect(0, 0, 800, 60)
	for cur := 0; cur < 3; cur++ {
		if off := stripOffset(strip, 3, cur); off != 0 {
			t.Fatalf("offset for page %d = %d, want 0", cur, off)
		}
	}
}
