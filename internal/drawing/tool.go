// Package drawing turns pointer gestures on a page into ink annotations.
package drawing

import "fmt"

// Tool is the drawing engine's active mode.
type Tool int

const (
	ToolNone Tool = iota
	ToolPen
	ToolPencil
	ToolHighlighter
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolPen:
		return "pen"
	case ToolPencil:
		return "pencil"
	case ToolHighlighter:
		return "highlighter"
	case ToolEraser:
		return "eraser"
	default:
		return fmt.Sprintf("tool(%d)", int(t))
	}
}

// Width is the stroke width in PDF points.
func (t Tool) Width() float64 {
	switch t {
	case ToolPen:
		return 5
	case ToolPencil:
		return 1
	case ToolHighlighter:
		return 10
	default:
		return 0
	}
}

// Alpha is the stroke opacity.
func (t Tool) Alpha() float64 {
	if t == ToolHighlighter {
		return 0.3
	}
	return 1
}

// Inks reports whether the tool lays down strokes.
func (t Tool) Inks() bool {
	return t == ToolPen || t == ToolPencil || t == ToolHighlighter
}
