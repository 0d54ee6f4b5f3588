package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/example/pdfannotations/internal/appstate"
)

// stdoutIsTerminal is replaced in tests.
var stdoutIsTerminal = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }

type toolsCmd struct {
	*root
	fs *flag.FlagSet
}

func (t *toolsCmd) FlagSet() *flag.FlagSet {
	return t.fs
}

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	fs := flag.NewFlagSet("tools", flag.ExitOnError)
	t := &toolsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(t)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: t}
	}
	return t, nil
}

func (t *toolsCmd) Run() error {
	tw := tabwriter.NewWriter(t.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOOL\tWIDTH\tOPACITY\tDRAWS")
	for _, tool := range appstate.Tools() {
		dt := tool.DrawingTool()
		fmt.Fprintf(tw, "%s\t%g\t%g\t%t\n", tool, dt.Width(), dt.Alpha(), dt.Inks())
	}
	return tw.Flush()
}

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	c := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *colorsCmd) Run() error {
	swatches := stdoutIsTerminal()
	for _, col := range appstate.Colors() {
		hex := hexColor(col.RGBA())
		if swatches {
			swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
			fmt.Fprintf(c.out(), "%s %-7s %s\n", swatch, col, hex)
			continue
		}
		fmt.Fprintf(c.out(), "%-7s %s\n", col, hex)
	}
	return nil
}
