package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	log "github.com/sirupsen/logrus"

	"github.com/example/pdfannotations/internal/document"
	"github.com/example/pdfannotations/internal/render"
	"github.com/example/pdfannotations/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

type paintState struct {
	lay        frameLayout
	snap       Snapshot
	theme      *theme.Theme
	doc        *document.Document
	generation uint64
	vp         render.Viewport
	pending    *document.Ink
	buttons    []Button
	colors     []Button
	hover      Button
	now        time.Time
}

// frameCache keeps rendered pages between frames. Owned by the paint
// goroutine.
type frameCache struct {
	generation uint64
	cardPage   int
	cardWidth  int
	card       *image.RGBA
	thumbs     map[int]image.Image
}

func (c *frameCache) reset(generation uint64) {
	if c.generation == generation && c.thumbs != nil {
		return
	}
	c.generation = generation
	c.card = nil
	c.thumbs = make(map[int]image.Image)
}

func (c *frameCache) pageCard(doc *document.Document, page, width int) *image.RGBA {
	if c.card != nil && c.cardPage == page && c.cardWidth == width {
		return c.card
	}
	box, err := doc.MediaBox(page)
	if err != nil {
		return nil
	}
	inks, err := doc.Inks(page)
	if err != nil {
		log.Printf("read ink: %v", err)
	}
	c.card = render.PageImage(box, inks, width)
	c.cardPage, c.cardWidth = page, width
	return c.card
}

func (c *frameCache) thumbnail(doc *document.Document, page int) image.Image {
	if img, ok := c.thumbs[page]; ok {
		return img
	}
	box, err := doc.MediaBox(page)
	if err != nil {
		return nil
	}
	inks, _ := doc.Inks(page)
	img := render.Thumbnail(render.PageImage(box, inks, render.ThumbnailWidth*4), render.ThumbnailWidth, render.ThumbnailHeight)
	c.thumbs[page] = img
	return img
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, cache *frameCache) {
	b, err := s.NewBuffer(image.Point{st.lay.width, st.lay.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := st.theme

	fill(dst, dst.Bounds(), th.Background.RGBA)
	cache.reset(st.generation)
	if ctx.Err() != nil {
		return
	}

	if st.doc != nil {
		drawPage(dst, st, cache)
	}
	if ctx.Err() != nil {
		return
	}

	drawStrip(dst, st, cache)
	drawToolbar(dst, st)
	if ctx.Err() != nil {
		return
	}

	if st.snap.PanelVisible {
		drawPalette(dst, st)
	}
	if st.snap.Downloading {
		c := st.lay.pageArea.Min.Add(st.lay.pageArea.Max).Div(2)
		drawSpinner(dst, c, 18, th.Indicator.RGBA, st.now)
	}
	if st.snap.Status == StatusDownloadFailed || st.snap.Status == StatusLoadFailed {
		c := st.lay.pageArea.Min.Add(st.lay.pageArea.Max).Div(2)
		drawLabel(dst, image.Pt(c.X-40, c.Y), st.snap.Status.String(), th.Foreground.RGBA)
	}
	if st.snap.Message != "" {
		drawMessage(dst, st)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawPage(dst *image.RGBA, st paintState, cache *frameCache) {
	card := cache.pageCard(st.doc, st.snap.Page, st.vp.Rect.Dx())
	if card == nil {
		return
	}
	if st.pending != nil {
		live := image.NewRGBA(card.Bounds())
		draw.Draw(live, live.Bounds(), card, image.Point{}, draw.Src)
		render.DrawInk(live, render.Viewport{Box: st.vp.Box, Rect: live.Bounds()}, *st.pending)
		card = live
	}
	shadow := render.ApplyShadow(card, render.DefaultShadowOptions())
	at := st.vp.Rect.Min.Sub(shadow.Offset)
	clip := st.lay.pageArea
	r := image.Rectangle{Min: at, Max: at.Add(shadow.Image.Bounds().Size())}.Intersect(clip)
	draw.Draw(dst, r, shadow.Image, r.Min.Sub(at), draw.Over)
}

func drawStrip(dst *image.RGBA, st paintState, cache *frameCache) {
	th := st.theme
	fill(dst, st.lay.strip, th.ToolbarBackground.RGBA)
	strip := st.lay.strip
	n := st.doc.PageCount()
	off := stripOffset(strip, n, st.snap.Page)
	for i := 0; i < n; i++ {
		r := thumbRect(strip, i, off)
		if r.Max.X <= strip.Min.X {
			continue
		}
		if r.Min.X >= strip.Max.X {
			break
		}
		if img := cache.thumbnail(st.doc, i); img != nil {
			vis := r.Intersect(strip)
			draw.Draw(dst, vis, img, img.Bounds().Min.Add(vis.Min.Sub(r.Min)), draw.Src)
		}
		if i == st.snap.Page {
			render.DrawRect(dst, r.Inset(-2), th.ThumbnailCurrent.RGBA, 2)
		}
	}
}

func drawToolbar(dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, st.lay.toolbar, th.ToolbarBackground.RGBA)
	for _, b := range st.buttons {
		state := StateDefault
		if b == st.hover {
			state = StateHover
		}
		b.Draw(dst, state)
	}
	render.FillCircle(dst, st.lay.swatch.X, st.lay.swatch.Y, swatchSize/2-4, th.ButtonBorder.RGBA)
	render.FillCircle(dst, st.lay.swatch.X, st.lay.swatch.Y, swatchSize/2-6, st.snap.Swatch)
	if st.snap.Saving {
		drawSpinner(dst, st.lay.saveSpinner, 12, th.Indicator.RGBA, st.now)
	}
}

func drawPalette(dst *image.RGBA, st paintState) {
	r := st.lay.palette
	layer := image.NewRGBA(r)
	fill(layer, r, st.theme.PaletteBackground.RGBA)
	render.DrawRect(layer, r, st.theme.ButtonBorder.RGBA, 1)
	for _, b := range st.colors {
		state := StateDefault
		if b == st.hover {
			state = StateHover
		}
		b.Draw(layer, state)
	}
	a := uint8(st.snap.PanelAlpha*255 + 0.5)
	draw.DrawMask(dst, r, layer, r.Min, image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
}

func drawMessage(dst *image.RGBA, st paintState) {
	th := st.theme
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToastText.RGBA), Face: messageFace}
	wmsg := d.MeasureString(st.snap.Message).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (st.lay.width - wmsg) / 2
	py := st.lay.strip.Min.Y - 24 - descent
	rect := image.Rect(px-12, py-ascent-8, px+wmsg+12, py+descent+8)
	draw.Draw(dst, rect, image.NewUniform(th.ToastBackground.RGBA), image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(st.snap.Message)
}
