package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(img.Bounds()) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

// DrawLine draws a square-brush line between the two points.
func DrawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := int(math.Abs(float64(y1 - y0)))
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect outlines rect.
func DrawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	DrawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	DrawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	DrawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	DrawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// FillCircle paints a solid disc, blending col over the existing pixels.
func FillCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	mask := image.NewAlpha(image.Rect(cx-r, cy-r, cx+r+1, cy+r+1))
	stampDisc(mask, float64(cx), float64(cy), float64(r))
	draw.DrawMask(img, mask.Rect, image.NewUniform(col), image.Point{}, mask, mask.Rect.Min, draw.Over)
}

// stampDisc marks every mask pixel whose centre lies within r of (cx, cy).
func stampDisc(mask *image.Alpha, cx, cy, r float64) {
	r2 := r * r
	y0 := int(math.Floor(cy - r))
	y1 := int(math.Ceil(cy + r))
	for y := y0; y <= y1; y++ {
		fy := float64(y) + 0.5 - cy
		if fy*fy > r2 {
			continue
		}
		span := math.Sqrt(r2 - fy*fy)
		x0 := int(math.Floor(cx - span))
		x1 := int(math.Ceil(cx + span))
		for x := x0; x <= x1; x++ {
			fx := float64(x) + 0.5 - cx
			if fx*fx+fy*fy > r2 {
				continue
			}
			if image.Pt(x, y).In(mask.Rect) {
				mask.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
}

// strokeMask rasterizes a round-capped polyline of radius r into mask.
func strokeMask(mask *image.Alpha, pts []image.Point, r float64) {
	if len(pts) == 0 {
		return
	}
	if r < 0.5 {
		r = 0.5
	}
	step := math.Max(0.5, r/2)
	stampDisc(mask, float64(pts[0].X), float64(pts[0].Y), r)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx := float64(b.X - a.X)
		dy := float64(b.Y - a.Y)
		n := int(math.Ceil(math.Hypot(dx, dy) / step))
		for k := 1; k <= n; k++ {
			t := float64(k) / float64(n)
			stampDisc(mask, float64(a.X)+dx*t, float64(a.Y)+dy*t, r)
		}
	}
}
