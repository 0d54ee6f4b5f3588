package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/example/pdfannotations/internal/config"
	"github.com/example/pdfannotations/internal/notify"
	"github.com/example/pdfannotations/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	stdout         io.Writer
	notifier       *notify.Notifier
	config         *config.Config
	downloadAlerts bool
	saveAlerts     bool
	themeName      string
	logLevel       string
	activeTheme    *theme.Theme
}

func (r *root) Program() string {
	if r == nil || r.program == "" {
		return "pdfannotations"
	}
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	if r == nil {
		return nil
	}
	return r.fs
}

func (r *root) out() io.Writer {
	if r == nil || r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func (r *root) cfg() *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprintln(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
		config.ApplyEnv(cfg)
	}

	r := &root{
		fs:       flag.NewFlagSet("pdfannotations", flag.ExitOnError),
		program:  "pdfannotations",
		stdout:   os.Stdout,
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
	}
	r.fs.BoolVar(&r.downloadAlerts, "notify-download", cfg.Notify.Download, "show a desktop notification after the document downloads")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving the document")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast)")
	r.fs.StringVar(&r.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.configureLogging()
	if r.notifier != nil {
		r.notifier.Enable(notify.EventDownload, r.downloadAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventSaveFailed, r.saveAlerts)
	}
	r.activeTheme = r.loadTheme()

	cmd, err := r.command(r.fs.Arg(0), r.fs.Args()[1:])
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) command(name string, args []string) (runnable, error) {
	switch name {
	case "annotate":
		return parseAnnotateCmd(args, r)
	case "fetch":
		return parseFetchCmd(args, r)
	case "draw":
		return parseDrawCmd(args, r)
	case "erase":
		return parseEraseCmd(args, r)
	case "info":
		return parseInfoCmd(args, r)
	case "tools":
		return parseToolsCmd(args, r)
	case "colors":
		return parseColorsCmd(args, r)
	case "sample":
		return parseSampleCmd(args, r)
	case "copy":
		return parseCopyCmd(args, r)
	case "interactive":
		return &interactiveCmd{root: r}, nil
	case "config":
		return parseConfigCmd(args, r)
	case "version":
		return &versionCmd{root: r}, nil
	}
	return nil, &UsageError{of: r}
}

func (r *root) configureLogging() {
	level := r.logLevel
	if level == "" {
		level = r.cfg().LogLevel
	}
	if level == "" {
		return
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid log level %q: %v\n", level, err)
		return
	}
	log.SetLevel(lvl)
}

func (r *root) loadTheme() *theme.Theme {
	name := strings.TrimSpace(r.themeName)
	if name == "" {
		name = r.cfg().Theme
	}
	t, err := theme.NewLoader(r.cfg().Themes).Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
