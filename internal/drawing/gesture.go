package drawing

import (
	"sync"

	"github.com/example/pdfannotations/internal/document"
)

// PointerKind distinguishes pointer events delivered to a View.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerDrag
	PointerRelease
	PointerCancel
)

// PointerEvent is a pointer sample already mapped onto a page.
type PointerEvent struct {
	Kind  PointerKind
	Page  int
	Point document.Point
}

// GestureRecognizer turns press/drag/release sequences into delegate calls.
// It only sees events while attached to a View.
type GestureRecognizer struct {
	delegate Delegate

	mu     sync.Mutex
	view   *View
	active bool
	page   int
}

// NewGestureRecognizer returns a detached recognizer reporting to d.
func NewGestureRecognizer(d Delegate) *GestureRecognizer {
	return &GestureRecognizer{delegate: d}
}

// Attached reports whether the recognizer is installed on a view.
func (g *GestureRecognizer) Attached() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view != nil
}

// handle returns false when the event was not consumed.
func (g *GestureRecognizer) handle(ev PointerEvent) bool {
	g.mu.Lock()
	if g.view == nil {
		g.mu.Unlock()
		return false
	}
	switch ev.Kind {
	case PointerPress:
		g.active = true
		g.page = ev.Page
		g.mu.Unlock()
		g.delegate.GestureBegan(ev.Page, ev.Point)
	case PointerDrag:
		if !g.active {
			g.mu.Unlock()
			return true
		}
		page := g.page
		g.mu.Unlock()
		g.delegate.GestureMoved(page, ev.Point)
	case PointerRelease:
		if !g.active {
			g.mu.Unlock()
			return true
		}
		g.active = false
		page := g.page
		g.mu.Unlock()
		g.delegate.GestureEnded(page, ev.Point)
	default:
		wasActive := g.active
		g.active = false
		g.mu.Unlock()
		if wasActive {
			g.delegate.GestureCancelled()
		}
	}
	return true
}

// View is the document surface gesture recognizers attach to. Events no
// recognizer consumes fall through to the view's own scrolling.
type View struct {
	mu          sync.Mutex
	recognizers []*GestureRecognizer
}

// Attach installs g on the view. Attaching twice has no further effect.
func (v *View) Attach(g *GestureRecognizer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.view == v {
		return
	}
	g.view = v
	v.recognizers = append(v.recognizers, g)
}

// Detach removes g from the view, cancelling any gesture it was tracking.
func (v *View) Detach(g *GestureRecognizer) {
	v.mu.Lock()
	found := false
	for i, r := range v.recognizers {
		if r == g {
			v.recognizers = append(v.recognizers[:i], v.recognizers[i+1:]...)
			found = true
			break
		}
	}
	v.mu.Unlock()
	if !found {
		return
	}
	g.handle(PointerEvent{Kind: PointerCancel})
	g.mu.Lock()
	g.view = nil
	g.mu.Unlock()
}

// Recognizers returns the attached recognizers.
func (v *View) Recognizers() []*GestureRecognizer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]*GestureRecognizer(nil), v.recognizers...)
}

// Dispatch offers ev to the attached recognizers and reports whether one
// consumed it.
func (v *View) Dispatch(ev PointerEvent) bool {
	consumed := false
	for _, g := range v.Recognizers() {
		if g.handle(ev) {
			consumed = true
		}
	}
	return consumed
}
