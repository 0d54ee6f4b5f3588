package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/example/pdfannotations/internal/clipboard"
	"github.com/example/pdfannotations/internal/document"
	"github.com/example/pdfannotations/internal/render"
)

var (
	writeClipboardText  = clipboard.WriteText
	writeClipboardImage = clipboard.WriteImage
)

// copyCmd puts the document path or a rendered page on the clipboard.
type copyCmd struct {
	what  string
	file  string
	page  int
	width int
	*root
	fs *flag.FlagSet
}

func (c *copyCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCopyCmd(args []string, r *root) (*copyCmd, error) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	c := &copyCmd{root: r, fs: fs}
	fs.StringVar(&c.file, "file", r.cfg().LocalPath(), "document to copy from")
	fs.IntVar(&c.page, "page", 1, "page to copy, starting at 1")
	fs.IntVar(&c.width, "width", 1200, "rendered page width in pixels")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.what = fs.Arg(0)
	switch c.what {
	case "path", "page":
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *copyCmd) Run() error {
	if c.what == "path" {
		abs, err := filepath.Abs(c.file)
		if err != nil {
			return err
		}
		if err := writeClipboardText(abs); err != nil {
			return fmt.Errorf("copy path: %w", err)
		}
		fmt.Fprintf(c.out(), "copied %s\n", abs)
		return nil
	}

	doc, err := document.Open(c.file)
	if err != nil {
		return err
	}
	box, err := doc.MediaBox(c.page - 1)
	if err != nil {
		return err
	}
	inks, err := doc.Inks(c.page - 1)
	if err != nil {
		return err
	}
	img := render.PageImage(box, inks, c.width)
	if err := writeClipboardImage(img); err != nil {
		return fmt.Errorf("copy page %d: %w", c.page, err)
	}
	fmt.Fprintf(c.out(), "copied page %d (%dx%d)\n", c.page, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
