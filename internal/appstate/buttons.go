package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/pdfannotations/assets"
	"github.com/example/pdfannotations/internal/render"
	"github.com/example/pdfannotations/internal/theme"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// Selectable is implemented by buttons that render a selected look.
type Selectable interface {
	Selected() bool
}

type cacheKey struct {
	state    ButtonState
	selected bool
}

// CacheButton wraps another Button and caches its rendered states.
// Selection is part of the cache key for Selectable buttons.
type CacheButton struct {
	Button
	cache map[cacheKey]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	k := cacheKey{state: state}
	if s, ok := cb.Button.(Selectable); ok {
		k.selected = s.Selected()
	}
	if cb.cache == nil {
		cb.cache = make(map[cacheKey]*image.RGBA)
	}
	img, ok := cb.cache[k]
	if !ok {
		img = image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[k] = img
	}
	draw.Draw(dst, cb.Button.Rect(), img, cb.Button.Rect().Min, draw.Over)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = nil
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

func buttonBackground(th *theme.Theme, state ButtonState, selected bool) color.RGBA {
	switch {
	case selected:
		return th.ButtonSelected.RGBA
	case state == StateHover:
		return th.ButtonBackgroundHover.RGBA
	case state == StatePressed:
		return th.ButtonBorder.RGBA
	default:
		return th.ButtonBackground.RGBA
	}
}

func drawIcon(dst *image.RGBA, r image.Rectangle, icon assets.Icon, col color.RGBA) {
	size := r.Dy() - 12
	if size < 8 {
		size = r.Dy()
	}
	img, err := assets.Render(icon, size, col)
	if err != nil {
		return
	}
	at := image.Pt(r.Min.X+(r.Dx()-size)/2, r.Min.Y+(r.Dy()-size)/2)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}, img, image.Point{}, draw.Over)
}

// ToolButton selects an annotation tool.
type ToolButton struct {
	tool     Tool
	theme    *theme.Theme
	rect     image.Rectangle
	selected bool
	// onSelect is called when the button is activated.
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, tb.rect, image.NewUniform(buttonBackground(tb.theme, state, tb.selected)), image.Point{}, draw.Src)
	fg := tb.theme.ButtonIcon.RGBA
	if tb.selected {
		fg = tb.theme.ButtonIconSelected.RGBA
	}
	drawIcon(dst, tb.rect, tb.tool.icon(), fg)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) {
	if r != tb.rect {
		tb.rect = r
	}
}

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

// Selected reports whether the button shows as the active tool.
func (tb *ToolButton) Selected() bool { return tb.selected }

// Tool returns the tool the button selects.
func (tb *ToolButton) Tool() Tool { return tb.tool }

// ColorButton is a round swatch in the palette panel.
type ColorButton struct {
	color    Color
	theme    *theme.Theme
	rect     image.Rectangle
	selected bool
	onSelect func()
}

func (cb *ColorButton) Draw(dst *image.RGBA, state ButtonState) {
	c := cb.rect.Min.Add(cb.rect.Max).Div(2)
	r := cb.rect.Dx()
	if cb.rect.Dy() < r {
		r = cb.rect.Dy()
	}
	r = r/2 - 2
	if cb.selected || state != StateDefault {
		ring := cb.theme.ButtonBorder.RGBA
		if cb.selected {
			ring = cb.theme.Indicator.RGBA
		}
		render.FillCircle(dst, c.X, c.Y, r+2, ring)
		render.FillCircle(dst, c.X, c.Y, r, cb.theme.PaletteBackground.RGBA)
	}
	render.FillCircle(dst, c.X, c.Y, r-2, cb.color.RGBA())
}

func (cb *ColorButton) Rect() image.Rectangle { return cb.rect }

func (cb *ColorButton) SetRect(r image.Rectangle) {
	if r != cb.rect {
		cb.rect = r
	}
}

func (cb *ColorButton) Activate() {
	if cb.onSelect != nil {
		cb.onSelect()
	}
}

// Selected reports whether the swatch is the active color.
func (cb *ColorButton) Selected() bool { return cb.selected }

// Color returns the swatch color.
func (cb *ColorButton) Color() Color { return cb.color }

// ActionButton runs a callback, e.g. save or the palette toggle.
type ActionButton struct {
	label  string
	icon   assets.Icon
	theme  *theme.Theme
	rect   image.Rectangle
	hidden bool
	// onActivate is called when the button is clicked.
	onActivate func()
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	if ab.hidden {
		return
	}
	draw.Draw(dst, ab.rect, image.NewUniform(buttonBackground(ab.theme, state, false)), image.Point{}, draw.Src)
	drawIcon(dst, ab.rect, ab.icon, ab.theme.ButtonIcon.RGBA)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) {
	if r != ab.rect {
		ab.rect = r
	}
}

func (ab *ActionButton) Activate() {
	if ab.hidden {
		return
	}
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

// Hidden reports whether the button is currently removed from the toolbar.
func (ab *ActionButton) Hidden() bool { return ab.hidden }

// Selected lets hidden buttons use their own cache entry.
func (ab *ActionButton) Selected() bool { return ab.hidden }

// Indicator is a busy spinner that is hidden while stopped.
type Indicator struct {
	animating bool
}

// Start shows and spins the indicator.
func (i *Indicator) Start() { i.animating = true }

// Stop hides the indicator.
func (i *Indicator) Stop() { i.animating = false }

// Animating reports whether the indicator is spinning.
func (i *Indicator) Animating() bool { return i.animating }

// drawSpinner draws eight dots around c with the lead dot chosen by now.
func drawSpinner(dst *image.RGBA, c image.Point, r int, col color.RGBA, now time.Time) {
	const dots = 8
	lead := int(now.UnixMilli()/100) % dots
	for i := 0; i < dots; i++ {
		a := 2 * math.Pi * float64(i) / dots
		x := c.X + int(math.Round(float64(r)*math.Cos(a)))
		y := c.Y + int(math.Round(float64(r)*math.Sin(a)))
		fade := (i - lead + dots) % dots
		dc := col
		dc.A = uint8(255 - fade*28)
		render.FillCircle(dst, x, y, 2, color.NRGBA{R: dc.R, G: dc.G, B: dc.B, A: dc.A})
	}
}

func drawLabel(dst *image.RGBA, at image.Point, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(at.X, at.Y)}
	d.DrawString(s)
}
