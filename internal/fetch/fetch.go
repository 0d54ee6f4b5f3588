// Package fetch keeps a local copy of a remote document, downloading it at
// most once.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Handle points at the on-disk copy of the remote document.
type Handle struct {
	Path string
	// CacheHit is true when the file already existed and no request was made.
	CacheHit bool
}

// FetchError reports a failed download.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Fetcher downloads remote documents into local paths.
type Fetcher struct {
	client  Doer
	timeout time.Duration
	refresh bool
	group   singleflight.Group
	// Started is called before a network download begins.
	Started func(url, path string)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient overrides the HTTP client.
func WithClient(c Doer) Option { return func(f *Fetcher) { f.client = c } }

// WithTimeout bounds each download. Zero leaves the transport defaults.
func WithTimeout(d time.Duration) Option { return func(f *Fetcher) { f.timeout = d } }

// WithRefresh makes every call download again even when a local copy
// exists. The old copy is only replaced once the new one is complete.
func WithRefresh(refresh bool) Option { return func(f *Fetcher) { f.refresh = refresh } }

// WithStarted registers a callback invoked when a download starts.
func WithStarted(fn func(url, path string)) Option {
	return func(f *Fetcher) { f.Started = fn }
}

// New returns a Fetcher using http.DefaultClient unless overridden.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{client: http.DefaultClient}
	for _, o := range opts {
		o(f)
	}
	return f
}

// EnsureLocalCopy returns localPath if it already exists, otherwise downloads
// remoteURL into it. Concurrent calls for the same path share one download.
func (f *Fetcher) EnsureLocalCopy(ctx context.Context, remoteURL, localPath string) (Handle, error) {
	if !f.refresh && exists(localPath) {
		log.WithField("path", localPath).Debug("local copy present")
		return Handle{Path: localPath, CacheHit: true}, nil
	}
	v, err, _ := f.group.Do(localPath, func() (interface{}, error) {
		if !f.refresh && exists(localPath) {
			return Handle{Path: localPath, CacheHit: true}, nil
		}
		if err := f.download(ctx, remoteURL, localPath); err != nil {
			return Handle{}, err
		}
		return Handle{Path: localPath}, nil
	})
	if err != nil {
		return Handle{}, err
	}
	return v.(Handle), nil
}

func (f *Fetcher) download(ctx context.Context, remoteURL, localPath string) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	if f.Started != nil {
		f.Started(remoteURL, localPath)
	}
	entry := log.WithFields(log.Fields{"url": remoteURL, "path": localPath})
	entry.Info("downloading document")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return &FetchError{URL: remoteURL, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return &FetchError{URL: remoteURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{URL: remoteURL, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	removeStaleParts(localPath)
	tmp, err := os.CreateTemp(dir, partPattern(localPath))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(tmpPath); rerr != nil {
			log.Printf("remove partial download: %v", rerr)
		}
		return &FetchError{URL: remoteURL, Err: err}
	}
	if err := os.Rename(tmpPath, localPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", localPath, err)
	}
	entry.WithField("bytes", n).Info("download complete")
	return nil
}

func partPattern(localPath string) string {
	return "." + filepath.Base(localPath) + "-*.part"
}

// removeStaleParts deletes temp files left behind by interrupted downloads.
func removeStaleParts(localPath string) {
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(localPath), partPattern(localPath)))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			log.Printf("remove stale download %s: %v", m, err)
		}
	}
}

func exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
