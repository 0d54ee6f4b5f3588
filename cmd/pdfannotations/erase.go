package main

import (
	"flag"
	"fmt"

	"github.com/example/pdfannotations/internal/appstate"
	"github.com/example/pdfannotations/internal/document"
	"github.com/example/pdfannotations/internal/drawing"
)

// eraseCmd removes strokes touched by the given points.
type eraseCmd struct {
	file   string
	output string
	page   int
	points []document.Point
	*root
	fs *flag.FlagSet
}

func (e *eraseCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEraseCmd(args []string, r *root) (*eraseCmd, error) {
	fs := flag.NewFlagSet("erase", flag.ExitOnError)
	e := &eraseCmd{root: r, fs: fs}
	fs.StringVar(&e.file, "file", r.cfg().LocalPath(), "document to edit")
	fs.StringVar(&e.output, "output", "", "where to write the result (default: overwrite -file)")
	fs.IntVar(&e.page, "page", 1, "page number, starting at 1")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, &UsageError{of: e}
	}
	var err error
	if e.points, err = parsePoints(fs.Args()); err != nil {
		return nil, err
	}
	if e.page < 1 {
		return nil, fmt.Errorf("page must be at least 1, got %d", e.page)
	}
	if e.output == "" {
		e.output = e.file
	}
	return e, nil
}

func (e *eraseCmd) Run() error {
	doc, err := document.Open(e.file)
	if err != nil {
		return err
	}
	drawer := drawing.NewDrawer(appstate.ColorRed.RGBA())
	drawer.SetDocument(doc)
	drawer.SetTool(drawing.ToolEraser)
	n, err := drawer.Erase(e.page-1, e.points)
	if err != nil {
		return err
	}
	if doc.Modified() {
		if err := writeDocument(doc, e.output); err != nil {
			return err
		}
	}
	fmt.Fprintf(e.out(), "removed %d stroke(s)\n", n)
	return nil
}
