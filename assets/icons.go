// Package assets rasterizes the toolbar icons from the material design set.
package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/exp/shiny/iconvg"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

// Icon names a toolbar glyph.
type Icon int

const (
	IconHand Icon = iota
	IconPen
	IconPencil
	IconMarker
	IconEraser
	IconSave
	IconPalette
)

var iconData = map[Icon][]byte{
	IconHand:    icons.ActionOpenWith,
	IconPen:     icons.EditorModeEdit,
	IconPencil:  icons.ContentCreate,
	IconMarker:  icons.EditorBorderColor,
	IconEraser:  icons.ContentBackspace,
	IconSave:    icons.ContentSave,
	IconPalette: icons.ImagePalette,
}

var iconNames = map[Icon]string{
	IconHand:    "hand",
	IconPen:     "pen",
	IconPencil:  "pencil",
	IconMarker:  "marker",
	IconEraser:  "eraser",
	IconSave:    "save",
	IconPalette: "palette",
}

func (i Icon) String() string {
	if n, ok := iconNames[i]; ok {
		return n
	}
	return fmt.Sprintf("Icon(%d)", int(i))
}

type cacheKey struct {
	icon Icon
	size int
	col  color.RGBA
}

var (
	cacheMu sync.Mutex
	cache   = map[cacheKey]*image.RGBA{}
)

// Render returns icon rasterized into a size×size image painted with col.
// Results are cached; callers must not modify the returned image.
func Render(icon Icon, size int, col color.RGBA) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("icon %s: invalid size %d", icon, size)
	}
	data, ok := iconData[icon]
	if !ok {
		return nil, fmt.Errorf("unknown icon %d", int(icon))
	}
	key := cacheKey{icon, size, col}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if img, ok := cache[key]; ok {
		return img, nil
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	var z iconvg.Rasterizer
	z.SetDstImage(img, img.Bounds(), draw.Src)
	pal := iconvg.DefaultPalette
	pal[0] = col
	if err := iconvg.Decode(&z, data, &iconvg.DecodeOptions{Palette: &pal}); err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", icon, err)
	}
	cache[key] = img
	return img, nil
}

// Icons lists every icon in toolbar order.
func Icons() []Icon {
	return []Icon{IconHand, IconPen, IconPencil, IconMarker, IconEraser, IconSave, IconPalette}
}
