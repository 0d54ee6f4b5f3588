package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Thumbnail cell size used by the page strip.
const (
	ThumbnailWidth  = 25
	ThumbnailHeight = 50
)

// ThumbnailBackground fills the space around a fitted page.
var ThumbnailBackground = color.Gray{Y: 242}

// Thumbnail scales page down to fit a w x h cell on ThumbnailBackground.
func Thumbnail(page image.Image, w, h int) *image.NRGBA {
	if w <= 0 {
		w = ThumbnailWidth
	}
	if h <= 0 {
		h = ThumbnailHeight
	}
	bg := imaging.New(w, h, ThumbnailBackground)
	if page == nil || page.Bounds().Empty() {
		return bg
	}
	fitted := imaging.Fit(page, w-2, h-2, imaging.Lanczos)
	return imaging.PasteCenter(bg, fitted)
}
