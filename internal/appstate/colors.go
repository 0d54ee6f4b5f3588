package appstate

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is one of the fixed stroke colors.
type Color int

const (
	ColorRed Color = iota
	ColorYellow
	ColorGreen
)

// Colors lists the palette in display order.
func Colors() []Color {
	return []Color{ColorRed, ColorYellow, ColorGreen}
}

var colorValues = map[Color]color.RGBA{
	ColorRed:    {R: 231, G: 76, B: 60, A: 255},
	ColorYellow: {R: 241, G: 196, B: 15, A: 255},
	ColorGreen:  {R: 46, G: 204, B: 113, A: 255},
}

var colorNames = map[Color]string{
	ColorRed:    "red",
	ColorYellow: "yellow",
	ColorGreen:  "green",
}

func (c Color) String() string {
	if n, ok := colorNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// RGBA returns the stroke color.
func (c Color) RGBA() color.RGBA {
	return colorValues[c]
}

// ParseColor accepts a color name.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return ColorRed, fmt.Errorf("unknown color %q", s)
}

func (c Color) shortcut() rune {
	switch c {
	case ColorYellow:
		return 'y'
	case ColorGreen:
		return 'g'
	default:
		return 'r'
	}
}
