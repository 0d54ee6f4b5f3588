package main

import (
	"flag"
	"path/filepath"

	"github.com/example/pdfannotations/internal/appstate"
	"github.com/example/pdfannotations/internal/fetch"
)

// runWindow is replaced in tests.
var runWindow = func(s *appstate.Screen) { s.Run() }

// annotateCmd represents the annotate subcommand.
type annotateCmd struct {
	url  string
	file string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	cfg := r.cfg()
	fs.StringVar(&a.url, "url", cfg.RemoteURL, "document to download when no local copy exists")
	fs.StringVar(&a.file, "file", cfg.LocalPath(), "local copy to load and save")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 || a.file == "" {
		return nil, &UsageError{of: a}
	}
	return a, nil
}

func (a *annotateCmd) screen() *appstate.Screen {
	opts := []appstate.Option{
		appstate.WithRemoteURL(a.url),
		appstate.WithLocalPath(a.file),
		appstate.WithFetcher(fetch.New(fetch.WithTimeout(a.cfg().DownloadTimeout.Duration))),
		appstate.WithTitle(windowTitle(titleOptions{File: filepath.Base(a.file)})),
	}
	if a.root != nil {
		opts = append(opts, appstate.WithNotifier(a.notifier))
		if a.activeTheme != nil {
			opts = append(opts, appstate.WithTheme(a.activeTheme))
		}
	}
	return appstate.New(opts...)
}

func (a *annotateCmd) Run() error {
	s := a.screen()
	defer s.Close()
	runWindow(s)
	return nil
}
