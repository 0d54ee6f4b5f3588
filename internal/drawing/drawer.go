package drawing

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/example/pdfannotations/internal/document"
)

// EraserTolerance is how far, in points, the eraser reaches beyond a stroke.
const EraserTolerance = 6

// minSegment drops pointer samples closer than this to the previous one.
const minSegment = 0.5

var errNoTool = errors.New("no drawing tool selected")

// Delegate receives gestures from a GestureRecognizer. Points are in PDF
// user space of the page the gesture started on.
type Delegate interface {
	GestureBegan(page int, p document.Point)
	GestureMoved(page int, p document.Point)
	GestureEnded(page int, p document.Point)
	GestureCancelled()
}

// Drawer commits gestures to a document using the current tool and color.
type Drawer struct {
	mu      sync.Mutex
	doc     *document.Document
	tool    Tool
	color   color.RGBA
	pending *document.Ink
	erased  int

	// OnChange is called after the document or pending stroke changes.
	OnChange func()
}

var _ Delegate = (*Drawer)(nil)

// NewDrawer returns a Drawer with no document, no tool and the given color.
func NewDrawer(c color.RGBA) *Drawer {
	return &Drawer{color: c}
}

// SetDocument replaces the document strokes are committed to.
func (d *Drawer) SetDocument(doc *document.Document) {
	d.mu.Lock()
	d.doc = doc
	d.pending = nil
	d.mu.Unlock()
}

// SetTool changes the active tool and drops any stroke in progress.
func (d *Drawer) SetTool(t Tool) {
	d.mu.Lock()
	d.tool = t
	d.pending = nil
	d.mu.Unlock()
}

// Tool returns the active tool.
func (d *Drawer) Tool() Tool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tool
}

// SetColor sets the color of subsequent strokes.
func (d *Drawer) SetColor(c color.RGBA) {
	d.mu.Lock()
	d.color = c
	d.mu.Unlock()
}

// Color returns the current stroke color.
func (d *Drawer) Color() color.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.color
}

// Pending returns a copy of the stroke being drawn, if any.
func (d *Drawer) Pending() (document.Ink, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return document.Ink{}, false
	}
	out := *d.pending
	out.Paths = [][]document.Point{append([]document.Point(nil), d.pending.Paths[0]...)}
	return out, true
}

func (d *Drawer) GestureBegan(page int, p document.Point) {
	d.mu.Lock()
	tool := d.tool
	switch {
	case tool.Inks():
		d.pending = &document.Ink{
			Page:    page,
			Paths:   [][]document.Point{{p}},
			Color:   d.color,
			Width:   tool.Width(),
			Opacity: tool.Alpha(),
		}
		d.mu.Unlock()
	case tool == ToolEraser:
		d.erased = 0
		d.mu.Unlock()
		d.eraseAt(page, p)
	default:
		d.mu.Unlock()
	}
	d.changed()
}

func (d *Drawer) GestureMoved(page int, p document.Point) {
	d.mu.Lock()
	tool := d.tool
	if tool.Inks() && d.pending != nil {
		path := d.pending.Paths[0]
		last := path[len(path)-1]
		if abs(last.X-p.X)+abs(last.Y-p.Y) >= minSegment {
			d.pending.Paths[0] = append(path, p)
		}
		d.mu.Unlock()
		d.changed()
		return
	}
	d.mu.Unlock()
	if tool == ToolEraser {
		d.eraseAt(page, p)
	}
}

func (d *Drawer) GestureEnded(page int, p document.Point) {
	d.GestureMoved(page, p)
	d.mu.Lock()
	ink := d.pending
	d.pending = nil
	tool := d.tool
	erased := d.erased
	d.mu.Unlock()
	if tool == ToolEraser {
		if erased > 0 {
			log.WithField("page", page).Debugf("erased %d strokes", erased)
		}
		return
	}
	if ink == nil {
		return
	}
	if _, err := d.commit(*ink); err != nil {
		log.Printf("commit stroke: %v", err)
	}
	d.changed()
}

func (d *Drawer) GestureCancelled() {
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
	d.changed()
}

// Draw commits a complete stroke through points with the current tool.
func (d *Drawer) Draw(page int, points []document.Point) (string, error) {
	d.mu.Lock()
	tool := d.tool
	c := d.color
	d.mu.Unlock()
	if !tool.Inks() {
		return "", fmt.Errorf("draw with %s: %w", tool, errNoTool)
	}
	id, err := d.commit(document.Ink{
		Page:    page,
		Paths:   [][]document.Point{points},
		Color:   c,
		Width:   tool.Width(),
		Opacity: tool.Alpha(),
	})
	if err != nil {
		return "", err
	}
	d.changed()
	return id, nil
}

// Erase removes every stroke on page touched by points.
func (d *Drawer) Erase(page int, points []document.Point) (int, error) {
	d.mu.Lock()
	doc := d.doc
	d.mu.Unlock()
	total := 0
	for _, p := range points {
		n, err := doc.EraseAt(page, p, EraserTolerance)
		if err != nil {
			return total, err
		}
		total += n
	}
	if total > 0 {
		d.changed()
	}
	return total, nil
}

func (d *Drawer) commit(ink document.Ink) (string, error) {
	d.mu.Lock()
	doc := d.doc
	d.mu.Unlock()
	id, err := doc.AddInk(ink)
	if err != nil {
		return "", fmt.Errorf("add ink on page %d: %w", ink.Page+1, err)
	}
	log.WithFields(log.Fields{"page": ink.Page, "id": id, "points": len(ink.Paths[0])}).Debug("stroke committed")
	return id, nil
}

func (d *Drawer) eraseAt(page int, p document.Point) {
	d.mu.Lock()
	doc := d.doc
	d.mu.Unlock()
	n, err := doc.EraseAt(page, p, EraserTolerance)
	if err != nil {
		log.Printf("erase: %v", err)
		return
	}
	if n == 0 {
		return
	}
	d.mu.Lock()
	d.erased += n
	d.mu.Unlock()
	d.changed()
}

func (d *Drawer) changed() {
	if d.OnChange != nil {
		d.OnChange()
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
