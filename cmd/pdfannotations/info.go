package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/example/pdfannotations/internal/document"
)

type inkInfo struct {
	ID      string  `json:"id" yaml:"id"`
	Color   string  `json:"color" yaml:"color"`
	Width   float64 `json:"width" yaml:"width"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
	Points  int     `json:"points" yaml:"points"`
}

type pageInfo struct {
	Page   int       `json:"page" yaml:"page"`
	Width  float64   `json:"width" yaml:"width"`
	Height float64   `json:"height" yaml:"height"`
	Inks   []inkInfo `json:"inks,omitempty" yaml:"inks,omitempty"`
}

type documentInfo struct {
	Path  string     `json:"path" yaml:"path"`
	Size  int64      `json:"size" yaml:"size"`
	Pages []pageInfo `json:"pages" yaml:"pages"`
}

// infoCmd describes the pages and ink annotations of a document.
type infoCmd struct {
	file   string
	format string
	*root
	fs *flag.FlagSet
}

func (i *infoCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInfoCmd(args []string, r *root) (*infoCmd, error) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	i := &infoCmd{root: r, fs: fs}
	fs.StringVar(&i.file, "file", r.cfg().LocalPath(), "document to describe")
	fs.StringVar(&i.format, "format", "text", "output format: text, json or yaml")
	fs.Usage = usageFunc(i)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch i.format {
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("unknown format %q", i.format)
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func describe(path string) (documentInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return documentInfo{}, err
	}
	doc, err := document.Open(path)
	if err != nil {
		return documentInfo{}, err
	}
	info := documentInfo{Path: filepath.Clean(path), Size: st.Size()}
	for p := 0; p < doc.PageCount(); p++ {
		box, err := doc.MediaBox(p)
		if err != nil {
			return documentInfo{}, err
		}
		inks, err := doc.Inks(p)
		if err != nil {
			return documentInfo{}, fmt.Errorf("page %d: %w", p+1, err)
		}
		pi := pageInfo{Page: p + 1, Width: box.Width(), Height: box.Height()}
		for _, ink := range inks {
			n := 0
			for _, path := range ink.Paths {
				n += len(path)
			}
			pi.Inks = append(pi.Inks, inkInfo{
				ID:      ink.ID,
				Color:   hexColor(ink.Color),
				Width:   ink.Width,
				Opacity: ink.Opacity,
				Points:  n,
			})
		}
		info.Pages = append(info.Pages, pi)
	}
	return info, nil
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (i *infoCmd) Run() error {
	info, err := describe(i.file)
	if err != nil {
		return err
	}
	w := i.out()
	switch i.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	}
	return writeInfoText(w, info)
}

func writeInfoText(w io.Writer, info documentInfo) error {
	if _, err := fmt.Fprintf(w, "%s (%d bytes, %d pages)\n", info.Path, info.Size, len(info.Pages)); err != nil {
		return err
	}
	for _, p := range info.Pages {
		fmt.Fprintf(w, "page %d: %.0fx%.0f pt, %d ink annotation(s)\n", p.Page, p.Width, p.Height, len(p.Inks))
		for _, ink := range p.Inks {
			fmt.Fprintf(w, "  %s %s width=%g opacity=%g points=%d\n", ink.ID, ink.Color, ink.Width, ink.Opacity, ink.Points)
		}
	}
	return nil
}
