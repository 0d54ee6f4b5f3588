package document

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// annotPrint is the /F flag that keeps ink visible when printing.
const annotPrint = 1 << 2

var now = time.Now

// Ink is a freehand annotation on a page.
type Ink struct {
	ID      string
	Page    int
	Paths   [][]Point
	Color   color.RGBA
	Width   float64
	Opacity float64
}

// Bounds returns the rectangle covering every path point, grown by half the
// stroke width.
func (i Ink) Bounds() Box {
	first := true
	var b Box
	for _, path := range i.Paths {
		for _, p := range path {
			if first {
				b = Box{Min: p, Max: p}
				first = false
				continue
			}
			b.Min.X = math.Min(b.Min.X, p.X)
			b.Min.Y = math.Min(b.Min.Y, p.Y)
			b.Max.X = math.Max(b.Max.X, p.X)
			b.Max.Y = math.Max(b.Max.Y, p.Y)
		}
	}
	pad := i.Width/2 + 1
	b.Min.X -= pad
	b.Min.Y -= pad
	b.Max.X += pad
	b.Max.Y += pad
	return b
}

// Hit reports whether p lies within tolerance of any stroke segment.
func (i Ink) Hit(p Point, tolerance float64) bool {
	reach := tolerance + i.Width/2
	for _, path := range i.Paths {
		if len(path) == 1 && dist(path[0], p) <= reach {
			return true
		}
		for k := 1; k < len(path); k++ {
			if segmentDist(p, path[k-1], path[k]) <= reach {
				return true
			}
		}
	}
	return false
}

func dist(a, b Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

func segmentDist(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return dist(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return dist(p, Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// AddInk writes ink as an /Ink annotation with an appearance stream and
// returns its id.
func (d *Document) AddInk(ink Ink) (string, error) {
	if d == nil {
		return "", ErrNotLoaded
	}
	if len(ink.Paths) == 0 {
		return "", fmt.Errorf("ink has no paths")
	}
	if ink.ID == "" {
		ink.ID = uuid.NewString()
	}
	if ink.Width <= 0 {
		ink.Width = 1
	}
	if ink.Opacity <= 0 || ink.Opacity > 1 {
		ink.Opacity = 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	page, pageRef, _, err := d.pageDict(ink.Page)
	if err != nil {
		return "", err
	}

	bounds := ink.Bounds()
	ap, err := d.appearance(ink, bounds)
	if err != nil {
		return "", err
	}
	apRef, err := d.ctx.IndRefForNewObject(*ap)
	if err != nil {
		return "", fmt.Errorf("appearance object: %w", err)
	}

	inkList := types.Array{}
	for _, path := range ink.Paths {
		arr := types.Array{}
		for _, p := range path {
			arr = append(arr, types.Float(p.X), types.Float(p.Y))
		}
		inkList = append(inkList, arr)
	}

	annot := types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Ink"),
		"Rect":    boxArray(bounds),
		"InkList": inkList,
		"C":       colorArray(ink.Color),
		"CA":      types.Float(ink.Opacity),
		"BS": types.Dict{
			"Type": types.Name("Border"),
			"W":    types.Float(ink.Width),
			"S":    types.Name("S"),
		},
		"NM": types.StringLiteral(ink.ID),
		"M":  types.StringLiteral(now().UTC().Format("D:20060102150405Z")),
		"F":  types.Integer(annotPrint),
		"AP": types.Dict{"N": *apRef},
	}
	if pageRef != nil {
		annot["P"] = *pageRef
	}
	ref, err := d.ctx.IndRefForNewObject(annot)
	if err != nil {
		return "", fmt.Errorf("annotation object: %w", err)
	}

	annots, err := d.annots(page)
	if err != nil {
		return "", err
	}
	page["Annots"] = append(annots, *ref)
	d.dirty = true
	return ink.ID, nil
}

// appearance builds the /AP /N form for ink. Must be called with d.mu held.
func (d *Document) appearance(ink Ink, bounds Box) (*types.StreamDict, error) {
	var sb strings.Builder
	sb.WriteString("q\n")
	if ink.Opacity < 1 {
		sb.WriteString("/GS0 gs\n")
	}
	fmt.Fprintf(&sb, "%s %s %s RG\n", num(float64(ink.Color.R)/255), num(float64(ink.Color.G)/255), num(float64(ink.Color.B)/255))
	fmt.Fprintf(&sb, "%s w 1 J 1 j\n", num(ink.Width))
	for _, path := range ink.Paths {
		for k, p := range path {
			op := "l"
			if k == 0 {
				op = "m"
			}
			fmt.Fprintf(&sb, "%s %s %s\n", num(p.X), num(p.Y), op)
		}
		if len(path) == 1 {
			fmt.Fprintf(&sb, "%s %s l\n", num(path[0].X), num(path[0].Y))
		}
	}
	sb.WriteString("S\nQ\n")

	sd, err := d.ctx.NewStreamDictForBuf([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("appearance stream: %w", err)
	}
	sd.Dict["Type"] = types.Name("XObject")
	sd.Dict["Subtype"] = types.Name("Form")
	sd.Dict["BBox"] = boxArray(bounds)
	if ink.Opacity < 1 {
		sd.Dict["Resources"] = types.Dict{
			"ExtGState": types.Dict{
				"GS0": types.Dict{
					"Type": types.Name("ExtGState"),
					"CA":   types.Float(ink.Opacity),
					"ca":   types.Float(ink.Opacity),
				},
			},
		}
	}
	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("encode appearance: %w", err)
	}
	return sd, nil
}

// Inks returns the ink annotations on the zero-based page in drawing order.
func (d *Document) Inks(page int) ([]Ink, error) {
	if d == nil {
		return nil, ErrNotLoaded
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	dict, _, _, err := d.pageDict(page)
	if err != nil {
		return nil, err
	}
	annots, err := d.annots(dict)
	if err != nil {
		return nil, err
	}
	var out []Ink
	for _, obj := range annots {
		ink, ok := d.readInk(obj)
		if !ok {
			continue
		}
		ink.Page = page
		out = append(out, ink)
	}
	return out, nil
}

// EraseAt removes every ink annotation on the page hit by p and returns how
// many were removed.
func (d *Document) EraseAt(page int, p Point, tolerance float64) (int, error) {
	if d == nil {
		return 0, ErrNotLoaded
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	dict, _, _, err := d.pageDict(page)
	if err != nil {
		return 0, err
	}
	annots, err := d.annots(dict)
	if err != nil {
		return 0, err
	}
	kept := types.Array{}
	removed := 0
	for _, obj := range annots {
		if ink, ok := d.readInk(obj); ok && ink.Hit(p, tolerance) {
			removed++
			continue
		}
		kept = append(kept, obj)
	}
	if removed == 0 {
		return 0, nil
	}
	if len(kept) == 0 {
		delete(dict, "Annots")
	} else {
		dict["Annots"] = kept
	}
	d.dirty = true
	return removed, nil
}

// annots resolves the page's /Annots entry. Must be called with d.mu held.
func (d *Document) annots(page types.Dict) (types.Array, error) {
	obj, ok := page["Annots"]
	if !ok || obj == nil {
		return types.Array{}, nil
	}
	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil {
		return nil, fmt.Errorf("annotations: %w", err)
	}
	if arr == nil {
		return types.Array{}, nil
	}
	return arr, nil
}

func (d *Document) readInk(obj types.Object) (Ink, bool) {
	dict, err := d.ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		return Ink{}, false
	}
	if st := dict.Subtype(); st == nil || *st != "Ink" {
		return Ink{}, false
	}
	ink := Ink{Width: 1, Opacity: 1, Color: color.RGBA{A: 255}}
	if nm, ok := dict["NM"]; ok {
		ink.ID = d.text(nm)
	}
	list, err := d.ctx.DereferenceArray(dict["InkList"])
	if err != nil {
		return Ink{}, false
	}
	for _, entry := range list {
		coords, err := d.ctx.DereferenceArray(entry)
		if err != nil {
			continue
		}
		var path []Point
		for k := 0; k+1 < len(coords); k += 2 {
			x, okx := d.number(coords[k])
			y, oky := d.number(coords[k+1])
			if okx && oky {
				path = append(path, Point{X: x, Y: y})
			}
		}
		if len(path) > 0 {
			ink.Paths = append(ink.Paths, path)
		}
	}
	if c, err := d.ctx.DereferenceArray(dict["C"]); err == nil && len(c) == 3 {
		var rgb [3]uint8
		for k := range rgb {
			v, _ := d.number(c[k])
			rgb[k] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
		}
		ink.Color = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	}
	if ca, ok := d.number(dict["CA"]); ok && ca > 0 && ca <= 1 {
		ink.Opacity = ca
	}
	if bs, err := d.ctx.DereferenceDict(dict["BS"]); err == nil && bs != nil {
		if w, ok := d.number(bs["W"]); ok && w > 0 {
			ink.Width = w
		}
	}
	return ink, len(ink.Paths) > 0
}

func (d *Document) number(obj types.Object) (float64, bool) {
	if obj == nil {
		return 0, false
	}
	o, err := d.ctx.Dereference(obj)
	if err != nil {
		return 0, false
	}
	switch v := o.(type) {
	case types.Float:
		return float64(v), true
	case types.Integer:
		return float64(v), true
	}
	return 0, false
}

func (d *Document) text(obj types.Object) string {
	o, err := d.ctx.Dereference(obj)
	if err != nil {
		return ""
	}
	switch v := o.(type) {
	case types.StringLiteral:
		return string(v)
	case types.HexLiteral:
		return string(v)
	}
	return ""
}

func boxArray(b Box) types.Array {
	return types.Array{
		types.Float(b.Min.X),
		types.Float(b.Min.Y),
		types.Float(b.Max.X),
		types.Float(b.Max.Y),
	}
}

func colorArray(c color.RGBA) types.Array {
	return types.Array{
		types.Float(float64(c.R) / 255),
		types.Float(float64(c.G) / 255),
		types.Float(float64(c.B) / 255),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
