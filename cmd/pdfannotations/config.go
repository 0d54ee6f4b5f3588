package main

import (
	"flag"
	"fmt"

	"github.com/example/pdfannotations/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	output string
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.StringVar(&c.output, "output", "", "file written by save (default: the user config file)")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	subCmd := args[0]
	switch subCmd {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", subCmd)
	}
}

func (c *configCmd) runPrint() error {
	fmt.Fprint(c.out(), c.cfg().String())
	return nil
}

func (c *configCmd) runSave() error {
	path := c.output
	if path == "" {
		loader := config.NewLoader(version, configPathOverride)
		path = loader.GetConfigPath()
		if path == "" {
			path = loader.DefaultPath()
		}
	}
	if err := c.cfg().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(c.out(), "Configuration saved to %s\n", path)
	return nil
}
