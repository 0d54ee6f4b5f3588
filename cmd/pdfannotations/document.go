package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/example/pdfannotations/internal/document"
)

// parsePoints reads x y pairs given in PDF points.
func parsePoints(args []string) ([]document.Point, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("coordinates must come in x y pairs, got %d values", len(args))
	}
	pts := make([]document.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid x coordinate %q: %w", args[i], err)
		}
		y, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid y coordinate %q: %w", args[i+1], err)
		}
		pts = append(pts, document.Point{X: x, Y: y})
	}
	return pts, nil
}

func writeDocument(doc *document.Document, path string) error {
	data, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
