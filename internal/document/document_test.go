package document

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func blankDoc(t *testing.T, pages int) *Document {
	t.Helper()
	data, err := NewBlank(BlankOptions{Pages: pages, Size: "Letter"})
	if err != nil {
		t.Fatalf("NewBlank: %v", err)
	}
	doc, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return doc
}

func fixedNow(t *testing.T) {
	t.Helper()
	original := now
	now = func() time.Time { return time.Date(2019, 6, 14, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = original })
}

func TestNewBlankPageCountAndSize(t *testing.T) {
	doc := blankDoc(t, 3)
	if got := doc.PageCount(); got != 3 {
		t.Fatalf("PageCount = %d, want 3", got)
	}
	box, err := doc.MediaBox(0)
	if err != nil {
		t.Fatalf("MediaBox: %v", err)
	}
	if math.Abs(box.Width()-612) > 0.5 || math.Abs(box.Height()-792) > 0.5 {
		t.Fatalf("unexpected letter media box %+v", box)
	}
}

func TestNewBlankRejectsZeroPages(t *testing.T) {
	if _, err := NewBlank(BlankOptions{}); err == nil {
		t.Fatal("expected error for zero pages")
	}
}

func TestMediaBoxOutOfRange(t *testing.T) {
	doc := blankDoc(t, 1)
	if _, err := doc.MediaBox(1); !errors.Is(err, ErrPageRange) {
		t.Fatalf("expected ErrPageRange, got %v", err)
	}
	if _, err := doc.MediaBox(-1); !errors.Is(err, ErrPageRange) {
		t.Fatalf("expected ErrPageRange, got %v", err)
	}
}

func TestNilDocumentIsNotLoaded(t *testing.T) {
	var doc *Document
	if _, err := doc.Bytes(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Bytes: expected ErrNotLoaded, got %v", err)
	}
	if _, err := doc.AddInk(Ink{Paths: [][]Point{{{X: 1, Y: 1}}}}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("AddInk: expected ErrNotLoaded, got %v", err)
	}
	if doc.PageCount() != 0 {
		t.Fatal("nil document should have no pages")
	}
}

func TestUnmodifiedBytesAreSource(t *testing.T) {
	data, err := NewBlank(BlankOptions{Pages: 1})
	if err != nil {
		t.Fatalf("NewBlank: %v", err)
	}
	doc, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("unmodified document should serialize to its source bytes")
	}
}

func TestInkRoundTrip(t *testing.T) {
	fixedNow(t)
	doc := blankDoc(t, 2)
	want := Ink{
		ID:      "stroke-1",
		Page:    1,
		Paths:   [][]Point{{{X: 100, Y: 100}, {X: 150, Y: 120}, {X: 200, Y: 180}}},
		Color:   color.RGBA{R: 231, G: 76, B: 60, A: 255},
		Width:   10,
		Opacity: 0.3,
	}
	id, err := doc.AddInk(want)
	if err != nil {
		t.Fatalf("AddInk: %v", err)
	}
	if id != want.ID {
		t.Fatalf("AddInk id = %q, want %q", id, want.ID)
	}
	if !doc.Modified() {
		t.Fatal("document should be modified after AddInk")
	}

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if doc.Modified() {
		t.Fatal("document should be clean after Bytes")
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("serialized data is not a PDF: %q", data[:8])
	}

	reloaded, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	got, err := reloaded.Inks(1)
	if err != nil {
		t.Fatalf("Inks: %v", err)
	}
	opts := cmpopts.EquateApprox(0, 0.001)
	if diff := cmp.Diff([]Ink{want}, got, opts); diff != "" {
		t.Fatalf("ink mismatch (-want +got):\n%s", diff)
	}
	if other, err := reloaded.Inks(0); err != nil || len(other) != 0 {
		t.Fatalf("page 0 should have no ink, got %v (err %v)", other, err)
	}
}

func TestAddInkGeneratesID(t *testing.T) {
	doc := blankDoc(t, 1)
	id, err := doc.AddInk(Ink{Paths: [][]Point{{{X: 10, Y: 10}, {X: 20, Y: 20}}}})
	if err != nil {
		t.Fatalf("AddInk: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}
	inks, err := doc.Inks(0)
	if err != nil {
		t.Fatalf("Inks: %v", err)
	}
	if len(inks) != 1 || inks[0].ID != id {
		t.Fatalf("unexpected inks %+v", inks)
	}
	if inks[0].Width != 1 || inks[0].Opacity != 1 {
		t.Fatalf("expected default width and opacity, got %+v", inks[0])
	}
}

func TestAddInkRejectsEmpty(t *testing.T) {
	doc := blankDoc(t, 1)
	if _, err := doc.AddInk(Ink{}); err == nil {
		t.Fatal("expected error for ink without paths")
	}
}

func TestEraseAtRemovesOnlyHitStrokes(t *testing.T) {
	doc := blankDoc(t, 1)
	hit := Ink{ID: "hit", Paths: [][]Point{{{X: 100, Y: 100}, {X: 200, Y: 100}}}, Width: 5}
	miss := Ink{ID: "miss", Paths: [][]Point{{{X: 100, Y: 400}, {X: 200, Y: 400}}}, Width: 5}
	for _, ink := range []Ink{hit, miss} {
		if _, err := doc.AddInk(ink); err != nil {
			t.Fatalf("AddInk %s: %v", ink.ID, err)
		}
	}

	removed, err := doc.EraseAt(0, Point{X: 150, Y: 103}, 2)
	if err != nil {
		t.Fatalf("EraseAt: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	inks, err := doc.Inks(0)
	if err != nil {
		t.Fatalf("Inks: %v", err)
	}
	if len(inks) != 1 || inks[0].ID != "miss" {
		t.Fatalf("unexpected remaining inks %+v", inks)
	}

	removed, err = doc.EraseAt(0, Point{X: 500, Y: 700}, 2)
	if err != nil {
		t.Fatalf("EraseAt: %v", err)
	}
	if removed != 0 {
		t.Fatalf("erasing empty space removed %d strokes", removed)
	}
}

func TestEraseSurvivesSerialization(t *testing.T) {
	doc := blankDoc(t, 1)
	if _, err := doc.AddInk(Ink{ID: "a", Paths: [][]Point{{{X: 50, Y: 50}, {X: 60, Y: 60}}}, Width: 5}); err != nil {
		t.Fatalf("AddInk: %v", err)
	}
	if _, err := doc.Bytes(); err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if n, err := doc.EraseAt(0, Point{X: 55, Y: 55}, 1); err != nil || n != 1 {
		t.Fatalf("EraseAt = %d, %v", n, err)
	}
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	reloaded, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if inks, _ := reloaded.Inks(0); len(inks) != 0 {
		t.Fatalf("expected erased ink to stay gone, got %+v", inks)
	}
}

func TestInkHit(t *testing.T) {
	ink := Ink{Paths: [][]Point{{{X: 0, Y: 0}, {X: 10, Y: 0}}}, Width: 2}
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{X: 5, Y: 0}, true},
		{Point{X: 5, Y: 1.9}, true},
		{Point{X: 5, Y: 3}, false},
		{Point{X: 12.5, Y: 0}, false},
		{Point{X: -1, Y: 0}, true},
	}
	for _, c := range cases {
		if got := ink.Hit(c.p, 1); got != c.want {
			t.Errorf("Hit(%v) = %v, want %v", c.p, got, c.want)
		}
	}
	dot := Ink{Paths: [][]Point{{{X: 3, Y: 3}}}, Width: 4}
	if !dot.Hit(Point{X: 4, Y: 4}, 0) {
		t.Error("single point stroke should be hittable")
	}
}

func TestInkBounds(t *testing.T) {
	ink := Ink{Paths: [][]Point{{{X: 10, Y: 20}, {X: 30, Y: 5}}}, Width: 4}
	got := ink.Bounds()
	want := Box{Min: Point{X: 7, Y: 2}, Max: Point{X: 33, Y: 23}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAndLoad(t *testing.T) {
	data, err := NewBlank(BlankOptions{Pages: 2})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "your.pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.PageCount() != 2 || doc.Modified() {
		t.Fatalf("unexpected document: pages=%d modified=%v", doc.PageCount(), doc.Modified())
	}

	if _, err := Load(bytes.NewReader([]byte("not a pdf"))); err == nil {
		t.Fatal("Load should reject garbage")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Open missing: expected ErrNotExist, got %v", err)
	}
}
