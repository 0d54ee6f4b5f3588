// Package document holds a loaded PDF and the ink annotations drawn on it.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	// ErrNotLoaded is returned when an operation needs a document that has not been loaded.
	ErrNotLoaded = errors.New("document not loaded")
	// ErrPageRange is returned for page indices outside the document.
	ErrPageRange = errors.New("page out of range")
)

// Point is a position in PDF user space (origin bottom-left, y up).
type Point struct {
	X, Y float64
}

// Box is an axis aligned rectangle in PDF user space.
type Box struct {
	Min, Max Point
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// defaultMediaBox is US Letter, used when a page carries no usable MediaBox.
var defaultMediaBox = Box{Max: Point{X: 612, Y: 792}}

// Document is an in-memory PDF. It is safe for concurrent use.
type Document struct {
	mu    sync.Mutex
	ctx   *model.Context
	raw   []byte
	dirty bool
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Open reads and validates the PDF at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return doc, nil
}

// Load reads and validates a PDF from r.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return FromBytes(data)
}

// FromBytes parses data as a PDF document.
func FromBytes(data []byte) (*Document, error) {
	ctx, err := parse(data)
	if err != nil {
		return nil, err
	}
	return &Document{ctx: ctx, raw: data}, nil
}

func parse(data []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}
	return ctx, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == nil {
		return 0
	}
	return d.ctx.PageCount
}

// MediaBox returns the media box of the zero-based page.
func (d *Document) MediaBox(page int) (Box, error) {
	if d == nil {
		return Box{}, ErrNotLoaded
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _, attrs, err := d.pageDict(page)
	if err != nil {
		return Box{}, err
	}
	return mediaBox(attrs), nil
}

// Modified reports whether annotations changed since the last serialization.
func (d *Document) Modified() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty
}

// Bytes serializes the document. Unmodified documents return the bytes they
// were loaded from; modified ones are rewritten and reparsed so later edits
// start from the serialized state.
func (d *Document) Bytes() ([]byte, error) {
	if d == nil {
		return nil, ErrNotLoaded
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == nil {
		return nil, ErrNotLoaded
	}
	if !d.dirty && len(d.raw) > 0 {
		out := make([]byte, len(d.raw))
		copy(out, d.raw)
		return out, nil
	}
	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	data := buf.Bytes()
	ctx, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("reparse written pdf: %w", err)
	}
	d.ctx = ctx
	d.raw = data
	d.dirty = false
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// pageDict must be called with d.mu held.
func (d *Document) pageDict(page int) (types.Dict, *types.IndirectRef, *model.InheritedPageAttrs, error) {
	if d.ctx == nil {
		return nil, nil, nil, ErrNotLoaded
	}
	if page < 0 || page >= d.ctx.PageCount {
		return nil, nil, nil, fmt.Errorf("page %d of %d: %w", page+1, d.ctx.PageCount, ErrPageRange)
	}
	dict, ref, attrs, err := d.ctx.PageDict(page+1, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("page %d: %w", page+1, err)
	}
	if dict == nil {
		return nil, nil, nil, fmt.Errorf("page %d: missing page dictionary", page+1)
	}
	return dict, ref, attrs, nil
}

func mediaBox(attrs *model.InheritedPageAttrs) Box {
	if attrs == nil || attrs.MediaBox == nil {
		return defaultMediaBox
	}
	mb := attrs.MediaBox
	b := Box{
		Min: Point{X: mb.LL.X, Y: mb.LL.Y},
		Max: Point{X: mb.UR.X, Y: mb.UR.Y},
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		return defaultMediaBox
	}
	return b
}
