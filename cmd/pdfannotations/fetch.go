package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/example/pdfannotations/internal/fetch"
)

// stderrIsTerminal is replaced in tests.
var stderrIsTerminal = func() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// fetchCmd downloads the document without opening the window.
type fetchCmd struct {
	url     string
	file    string
	force   bool
	quiet   bool
	fetcher *fetch.Fetcher
	*root
	fs *flag.FlagSet
}

func (f *fetchCmd) FlagSet() *flag.FlagSet {
	return f.fs
}

func parseFetchCmd(args []string, r *root) (*fetchCmd, error) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	f := &fetchCmd{root: r, fs: fs}
	cfg := r.cfg()
	fs.StringVar(&f.url, "url", cfg.RemoteURL, "document to download")
	fs.StringVar(&f.file, "file", cfg.LocalPath(), "where to keep the local copy")
	fs.BoolVar(&f.force, "force", false, "download again even if a local copy exists; the copy is replaced only on success")
	fs.BoolVar(&f.quiet, "quiet", false, "do not show progress")
	fs.Usage = usageFunc(f)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 || f.url == "" || f.file == "" {
		return nil, &UsageError{of: f}
	}
	opts := []fetch.Option{
		fetch.WithTimeout(cfg.DownloadTimeout.Duration),
		fetch.WithRefresh(f.force),
	}
	if !f.quiet && !stderrIsTerminal() {
		opts = append(opts, fetch.WithStarted(func(url, _ string) {
			fmt.Fprintf(os.Stderr, "downloading %s\n", url)
		}))
	}
	f.fetcher = fetch.New(opts...)
	return f, nil
}

func (f *fetchCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	task := f.fetcher.Start(ctx, f.url, f.file)

	var (
		h   fetch.Handle
		err error
	)
	if !f.quiet && stderrIsTerminal() {
		h, err = runProgress(task, f.url)
	} else {
		h, err = task.Wait()
	}
	if err != nil {
		return fmt.Errorf("fetch %s: %w", f.url, err)
	}
	if h.CacheHit {
		fmt.Fprintf(f.out(), "%s already present\n", h.Path)
	} else {
		fmt.Fprintf(f.out(), "downloaded %s\n", h.Path)
	}
	if f.root != nil && !h.CacheHit {
		f.notifier.Download(h.Path, nil)
	}
	return nil
}
