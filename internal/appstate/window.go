package appstate

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	log "github.com/sirupsen/logrus"

	"github.com/example/pdfannotations/internal/clipboard"
	"github.com/example/pdfannotations/internal/display"
	"github.com/example/pdfannotations/internal/drawing"
	"github.com/example/pdfannotations/internal/render"
)

// pageSwipe is how far a hand drag must travel sideways to change page.
const pageSwipe = 80

// animationTick paces repaints while something on screen animates.
const animationTick = 16 * time.Millisecond

var letterAspect = 612.0 / 792.0

// Run executes the UI loop using shiny's driver.
func (s *Screen) Run() { driver.Main(s.Main) }

// Main opens the window, starts loading the document and processes events
// until the window closes.
func (s *Screen) Main(scr screen.Screen) {
	chrome := image.Pt(2*pageMargin, toolbarHeight+stripHeight+2*pageMargin)
	sz := display.WindowSize(letterAspect, chrome, image.Pt(720, 960))
	width, height := sz.X, sz.Y
	w, err := scr.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: s.title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer s.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-s.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	s.Start(ctx)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	cache := &frameCache{}
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, scr, w, st, cache)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	lay := s.layoutWindow(width, height)
	s.Layout()

	var tools, colors []Button
	wrap := func() {
		tools = tools[:0]
		colors = colors[:0]
		s.mu.Lock()
		for _, b := range s.toolButtons {
			tools = append(tools, &CacheButton{Button: b})
		}
		tools = append(tools, &CacheButton{Button: s.paletteButton}, &CacheButton{Button: s.saveButton})
		for _, b := range s.colorButtons {
			colors = append(colors, &CacheButton{Button: b})
		}
		s.mu.Unlock()
	}
	wrap()

	var hover Button
	var dragging bool
	var dragStart, dragLast image.Point
	var ticking atomic.Bool

	keyboardAction := map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}
	for _, t := range Tools() {
		tool := t
		register("tool-"+t.String(), shortcutList{{Rune: t.shortcut()}}, func() { s.SelectTool(tool) })
	}
	for _, c := range Colors() {
		col := c
		register("color-"+c.String(), shortcutList{{Rune: c.shortcut()}}, func() { s.SelectColor(col) })
	}
	register("palette", shortcutList{{Rune: 'c'}}, s.TogglePalette)
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		s.mu.Lock()
		b := s.saveButton
		s.mu.Unlock()
		b.Activate()
	})
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		img := s.pageImage(2 * lay.pageArea.Dx())
		if img == nil {
			return
		}
		if err := clipboard.WriteImage(img); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		s.mu.Lock()
		s.showMessageLocked("Page copied.")
		s.mu.Unlock()
	})
	register("next", shortcutList{{Code: key.CodeRightArrow}, {Code: key.CodePageDown}}, s.NextPage)
	register("prev", shortcutList{{Code: key.CodeLeftArrow}, {Code: key.CodePageUp}}, s.PrevPage)

	viewport := func() (render.Viewport, bool) {
		s.mu.Lock()
		doc, page, scroll := s.doc, s.page, s.scroll
		s.mu.Unlock()
		box, err := doc.MediaBox(page)
		if err != nil {
			return render.Viewport{}, false
		}
		return pageViewport(box, lay.pageArea, scroll), true
	}

	buttonAt := func(p image.Point) Button {
		if s.panel.Showing() && p.In(lay.palette) {
			for _, b := range colors {
				if p.In(b.Rect()) {
					return b
				}
			}
			return nil
		}
		for _, b := range tools {
			if p.In(b.Rect()) {
				return b
			}
		}
		return nil
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			lay = s.layoutWindow(width, height)
			s.Layout()
			w.Send(paint.Event{})
		case paint.Event:
			now := s.clock()
			animating := s.panel.Step(now)
			snap := s.State()
			if snap.Message != "" || snap.Downloading || snap.Saving {
				animating = true
			}
			if animating && ticking.CompareAndSwap(false, true) {
				time.AfterFunc(animationTick, func() {
					ticking.Store(false)
					s.requestPaint()
				})
			}
			if width <= 0 || height <= 0 {
				continue
			}
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			vp, _ := viewport()
			st := paintState{
				lay:        lay,
				snap:       snap,
				theme:      s.theme,
				doc:        s.Document(),
				generation: s.generation.Load(),
				vp:         vp,
				buttons:    tools,
				colors:     colors,
				hover:      hover,
				now:        now,
			}
			if ink, ok := s.drawer.Pending(); ok && ink.Page == snap.Page {
				st.pending = &ink
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
				if vp, ok := viewport(); ok {
					step := 40 / vp.Scale()
					if e.Button == mouse.ButtonWheelUp {
						step = -step
					}
					s.ScrollBy(step, maxScroll(vp.Box, lay.pageArea))
				}
				continue
			}
			if b := buttonAt(p); b != nil || p.In(lay.toolbar) {
				if b != hover {
					hover = b
					w.Send(paint.Event{})
				}
				if b != nil && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					b.Activate()
				}
				continue
			}
			if hover != nil {
				hover = nil
				w.Send(paint.Event{})
			}
			if s.panel.Showing() && e.Direction == mouse.DirPress {
				s.panel.Hide(s.clock())
				w.Send(paint.Event{})
				continue
			}
			if p.In(lay.strip) {
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					n := s.Document().PageCount()
					off := stripOffset(lay.strip, n, s.Page())
					for i := 0; i < n; i++ {
						if p.In(thumbRect(lay.strip, i, off)) {
							s.GoToPage(i)
							break
						}
					}
				}
				continue
			}
			if !p.In(lay.pageArea) {
				continue
			}
			vp, ok := viewport()
			if !ok {
				continue
			}
			ev := drawing.PointerEvent{Page: s.Page(), Point: vp.ToPage(p)}
			switch {
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				ev.Kind = drawing.PointerPress
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				ev.Kind = drawing.PointerRelease
			case e.Direction == mouse.DirNone && dragging:
				ev.Kind = drawing.PointerDrag
			default:
				continue
			}
			if s.view.Dispatch(ev) {
				dragging = ev.Kind != drawing.PointerRelease
				continue
			}
			switch ev.Kind {
			case drawing.PointerPress:
				dragging = true
				dragStart, dragLast = p, p
			case drawing.PointerDrag:
				dy := dragLast.Y - p.Y
				dragLast = p
				s.ScrollBy(float64(dy)/vp.Scale(), maxScroll(vp.Box, lay.pageArea))
			case drawing.PointerRelease:
				dragging = false
				dx := p.X - dragStart.X
				if abs(dx) > pageSwipe && abs(dx) > abs(p.Y-dragStart.Y) {
					if dx < 0 {
						s.NextPage()
					} else {
						s.PrevPage()
					}
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if e.Rune == 'q' && e.Modifiers == 0 {
				stopPaint()
				return
			}
			ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
			if e.Rune > 0 {
				ks.Code = 0
			} else {
				ks.Rune = 0
			}
			if name, ok := keyboardAction[ks]; ok {
				actions[name]()
				w.Send(paint.Event{})
			}
		}
	}
}

// pageImage renders the current page with its ink at the given width.
func (s *Screen) pageImage(width int) *image.RGBA {
	s.mu.Lock()
	doc, page := s.doc, s.page
	s.mu.Unlock()
	box, err := doc.MediaBox(page)
	if err != nil {
		return nil
	}
	inks, err := doc.Inks(page)
	if err != nil {
		return nil
	}
	return render.PageImage(box, inks, width)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
