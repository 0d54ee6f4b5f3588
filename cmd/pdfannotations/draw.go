package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/example/pdfannotations/internal/appstate"
	"github.com/example/pdfannotations/internal/document"
	"github.com/example/pdfannotations/internal/drawing"
)

// drawCmd adds a single stroke to a page.
type drawCmd struct {
	file   string
	output string
	page   int
	tool   appstate.Tool
	color  appstate.Color
	points []document.Point
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.StringVar(&d.file, "file", r.cfg().LocalPath(), "document to annotate")
	fs.StringVar(&d.output, "output", "", "where to write the result (default: overwrite -file)")
	fs.IntVar(&d.page, "page", 1, "page number, starting at 1")
	toolName := fs.String("tool", appstate.ToolPen.String(), "pen, pencil or marker")
	colorName := fs.String("color", appstate.ColorRed.String(), "red, yellow or green")
	fs.Usage = usageFunc(d)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	tool, err := appstate.ParseTool(*toolName)
	if err != nil {
		return nil, err
	}
	if !tool.DrawingTool().Inks() {
		return nil, fmt.Errorf("cannot draw with the %s tool", tool)
	}
	d.tool = tool
	if d.color, err = appstate.ParseColor(*colorName); err != nil {
		return nil, err
	}
	if fs.NArg() < 4 {
		return nil, &UsageError{of: d}
	}
	if d.points, err = parsePoints(fs.Args()); err != nil {
		return nil, err
	}
	if d.page < 1 {
		return nil, fmt.Errorf("page must be at least 1, got %d", d.page)
	}
	if d.output == "" {
		d.output = d.file
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	doc, err := document.Open(d.file)
	if err != nil {
		return err
	}
	drawer := drawing.NewDrawer(d.color.RGBA())
	drawer.SetDocument(doc)
	drawer.SetTool(d.tool.DrawingTool())
	id, err := drawer.Draw(d.page-1, d.points)
	if err != nil {
		return err
	}
	if err := writeDocument(doc, d.output); err != nil {
		return err
	}
	log.WithFields(log.Fields{"page": d.page, "tool": d.tool, "color": d.color}).Debug("stroke added")
	fmt.Fprintf(d.out(), "%s\n", id)
	return nil
}
