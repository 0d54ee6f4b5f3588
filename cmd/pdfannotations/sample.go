package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/pdfannotations/internal/document"
)

// sampleCmd writes a blank practice document.
type sampleCmd struct {
	output string
	force  bool
	opts   document.BlankOptions
	*root
	fs *flag.FlagSet
}

func (s *sampleCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSampleCmd(args []string, r *root) (*sampleCmd, error) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	s := &sampleCmd{root: r, fs: fs}
	fs.StringVar(&s.output, "output", r.cfg().LocalPath(), "file to write")
	fs.BoolVar(&s.force, "force", false, "overwrite an existing file")
	fs.IntVar(&s.opts.Pages, "pages", 3, "number of pages")
	fs.StringVar(&s.opts.Size, "size", "A4", "page size (A4, Letter, ...)")
	fs.StringVar(&s.opts.Title, "title", "Practice sheet", "heading printed on each page")
	fs.BoolVar(&s.opts.Ruled, "ruled", true, "draw writing lines")
	fs.Usage = usageFunc(s)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 || s.output == "" {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *sampleCmd) Run() error {
	if !s.force {
		if _, err := os.Stat(s.output); err == nil {
			return fmt.Errorf("%s already exists, use -force to replace it", s.output)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	data, err := document.NewBlank(s.opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.output), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(s.output), err)
	}
	if err := os.WriteFile(s.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.output, err)
	}
	fmt.Fprintf(s.out(), "wrote %s\n", s.output)
	return nil
}
