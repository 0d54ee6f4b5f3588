package appstate

import (
	"fmt"
	"strings"

	"github.com/example/pdfannotations/assets"
	"github.com/example/pdfannotations/internal/drawing"
)

// Tool is the active annotation mode. ToolHand means plain navigation.
type Tool int

const (
	ToolHand Tool = iota
	ToolPen
	ToolPencil
	ToolMarker
	ToolEraser
)

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolHand, ToolPen, ToolPencil, ToolMarker, ToolEraser}
}

var toolNames = map[Tool]string{
	ToolHand:   "hand",
	ToolPen:    "pen",
	ToolPencil: "pencil",
	ToolMarker: "marker",
	ToolEraser: "eraser",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool accepts a tool name; "highlighter" is an alias for marker.
func ParseTool(s string) (Tool, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "highlighter" {
		return ToolMarker, nil
	}
	for t, n := range toolNames {
		if n == name {
			return t, nil
		}
	}
	return ToolHand, fmt.Errorf("unknown tool %q", s)
}

// DrawingTool maps the selection onto the drawing engine's mode.
func (t Tool) DrawingTool() drawing.Tool {
	switch t {
	case ToolPen:
		return drawing.ToolPen
	case ToolPencil:
		return drawing.ToolPencil
	case ToolMarker:
		return drawing.ToolHighlighter
	case ToolEraser:
		return drawing.ToolEraser
	default:
		return drawing.ToolNone
	}
}

func (t Tool) icon() assets.Icon {
	switch t {
	case ToolPen:
		return assets.IconPen
	case ToolPencil:
		return assets.IconPencil
	case ToolMarker:
		return assets.IconMarker
	case ToolEraser:
		return assets.IconEraser
	default:
		return assets.IconHand
	}
}

// shortcut is the key that selects the tool in the window.
func (t Tool) shortcut() rune {
	switch t {
	case ToolPen:
		return 'p'
	case ToolPencil:
		return 'n'
	case ToolMarker:
		return 'm'
	case ToolEraser:
		return 'e'
	default:
		return 'h'
	}
}
