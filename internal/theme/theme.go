// Package theme describes the colors of the annotation window.
package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an RGBA color written as #RRGGBB or #RRGGBBAA in theme files.
type Color struct {
	color.RGBA
}

// Hex builds a Color from its components.
func Hex(r, g, b, a uint8) Color { return Color{color.RGBA{R: r, G: g, B: b, A: a}} }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	col, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	c.RGBA = col
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseColor parses #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color %q must start with #", s)
	}
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: invalid hex length", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		val = val<<8 | 0xFF
	}
	return color.RGBA{
		R: uint8(val >> 24),
		G: uint8(val >> 16),
		B: uint8(val >> 8),
		A: uint8(val),
	}, nil
}

// Theme defines the colors of the window chrome.
type Theme struct {
	Name string `toml:"name"`

	// Window
	Background Color `toml:"background"`
	Foreground Color `toml:"foreground"`

	// Toolbar
	ToolbarBackground     Color `toml:"toolbar_background"`
	ButtonBackground      Color `toml:"button_background"`
	ButtonBackgroundHover Color `toml:"button_background_hover"`
	ButtonSelected        Color `toml:"button_selected"`
	ButtonIcon            Color `toml:"button_icon"`
	ButtonIconSelected    Color `toml:"button_icon_selected"`
	ButtonBorder          Color `toml:"button_border"`

	// Palette panel and busy indicators
	PaletteBackground Color `toml:"palette_background"`
	Indicator         Color `toml:"indicator"`

	// Page strip
	ThumbnailBackground Color `toml:"thumbnail_background"`
	ThumbnailCurrent    Color `toml:"thumbnail_current"`

	// Toasts
	ToastBackground Color `toml:"toast_background"`
	ToastText       Color `toml:"toast_text"`
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            Hex(230, 230, 230, 255),
		Foreground:            Hex(0, 0, 0, 255),
		ToolbarBackground:     Hex(245, 245, 245, 255),
		ButtonBackground:      Hex(245, 245, 245, 255),
		ButtonBackgroundHover: Hex(225, 225, 225, 255),
		ButtonSelected:        Hex(52, 120, 246, 255),
		ButtonIcon:            Hex(60, 60, 60, 255),
		ButtonIconSelected:    Hex(255, 255, 255, 255),
		ButtonBorder:          Hex(200, 200, 200, 255),
		PaletteBackground:     Hex(255, 255, 255, 255),
		Indicator:             Hex(52, 120, 246, 255),
		ThumbnailBackground:   Hex(242, 242, 242, 255),
		ThumbnailCurrent:      Hex(52, 120, 246, 255),
		ToastBackground:       Hex(40, 40, 40, 230),
		ToastText:             Hex(255, 255, 255, 255),
	}
}
