package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const payload = "%PDF-1.4 sample"

func countingServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestEnsureLocalCopyCacheHitMakesNoRequest(t *testing.T) {
	srv, calls := countingServer(t, http.StatusOK, payload)
	path := filepath.Join(t.TempDir(), "your.pdf")
	if err := os.WriteFile(path, []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := New().EnsureLocalCopy(context.Background(), srv.URL, path)
	if err != nil {
		t.Fatalf("EnsureLocalCopy: %v", err)
	}
	if !h.CacheHit || h.Path != path {
		t.Fatalf("unexpected handle %+v", h)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Fatalf("expected no network calls, got %d", n)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "cached" {
		t.Fatalf("cached file modified: %q", data)
	}
}

func TestEnsureLocalCopyDownloadsOnce(t *testing.T) {
	srv, calls := countingServer(t, http.StatusOK, payload)
	path := filepath.Join(t.TempDir(), "docs", "nested", "your.pdf")
	f := New()

	h, err := f.EnsureLocalCopy(context.Background(), srv.URL, path)
	if err != nil {
		t.Fatalf("EnsureLocalCopy: %v", err)
	}
	if h.CacheHit {
		t.Fatal("first fetch should not be a cache hit")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("downloaded %q, want %q", data, payload)
	}

	h, err = f.EnsureLocalCopy(context.Background(), srv.URL, path)
	if err != nil {
		t.Fatalf("second EnsureLocalCopy: %v", err)
	}
	if !h.CacheHit {
		t.Fatal("second fetch should be a cache hit")
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Fatalf("expected exactly one network call, got %d", n)
	}
}

func TestEnsureLocalCopyReplacesPartialDownload(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK, payload)
	dir := t.TempDir()
	path := filepath.Join(dir, "your.pdf")
	stale := filepath.Join(dir, ".your.pdf-123.part")
	if err := os.WriteFile(stale, []byte("%PDF-trunc"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := New().EnsureLocalCopy(context.Background(), srv.URL, path); err != nil {
		t.Fatalf("EnsureLocalCopy: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale partial download to be removed, stat err=%v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != payload {
		t.Fatalf("downloaded %q, want %q", data, payload)
	}
}

func TestEnsureLocalCopyStatusError(t *testing.T) {
	srv, _ := countingServer(t, http.StatusNotFound, "missing")
	path := filepath.Join(t.TempDir(), "your.pdf")

	_, err := New().EnsureLocalCopy(context.Background(), srv.URL, path)
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if ferr.StatusCode != http.StatusNotFound {
		t.Fatalf("StatusCode = %d, want 404", ferr.StatusCode)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be written on failure, stat err=%v", err)
	}
}

type failingDoer struct{ err error }

func (f failingDoer) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestEnsureLocalCopyTransportError(t *testing.T) {
	sentinel := errors.New("network unreachable")
	path := filepath.Join(t.TempDir(), "your.pdf")
	_, err := New(WithClient(failingDoer{err: sentinel})).EnsureLocalCopy(context.Background(), "http://example.invalid/a.pdf", path)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	var ferr *FetchError
	if !errors.As(err, &ferr) || ferr.URL != "http://example.invalid/a.pdf" {
		t.Fatalf("expected FetchError with URL, got %v", err)
	}
}

func TestEnsureLocalCopyConcurrentCallersShareDownload(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "your.pdf")
	started := make(chan struct{}, 1)
	f := New(WithStarted(func(string, string) {
		select {
		case started <- struct{}{}:
		default:
		}
	}))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.EnsureLocalCopy(context.Background(), srv.URL, path)
		}(i)
	}
	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected one shared download, got %d", n)
	}
}

func TestTaskWait(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK, payload)
	path := filepath.Join(t.TempDir(), "your.pdf")
	task := New().Start(context.Background(), srv.URL, path)
	h, err := task.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if h.Path != path {
		t.Fatalf("Path = %q, want %q", h.Path, path)
	}
	select {
	case <-task.Done():
	default:
		t.Fatal("Done should be closed after Wait")
	}
}

func TestTaskCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	path := filepath.Join(t.TempDir(), "your.pdf")

	task := New().Start(context.Background(), srv.URL, path)
	task.Cancel()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish after Cancel")
	}
	if _, err := task.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("cancelled download should not leave a file, stat err=%v", err)
	}
}

func TestRefreshKeepsOldCopyOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "your.pdf")
	if err := os.WriteFile(path, []byte("annotated"), 0o644); err != nil {
		t.Fatal(err)
	}

	failing, _ := countingServer(t, http.StatusInternalServerError, "boom")
	_, err := New(WithRefresh(true)).EnsureLocalCopy(context.Background(), failing.URL, path)
	var ferr *FetchError
	if !errors.As(err, &ferr) || ferr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 FetchError, got %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "annotated" {
		t.Fatalf("old copy lost after failed refresh: %q, %v", data, err)
	}

	ok, calls := countingServer(t, http.StatusOK, payload)
	h, err := New(WithRefresh(true)).EnsureLocalCopy(context.Background(), ok.URL, path)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if h.CacheHit || atomic.LoadInt32(calls) != 1 {
		t.Fatalf("refresh should download, handle %+v calls %d", h, atomic.LoadInt32(calls))
	}
	if data, _ := os.ReadFile(path); string(data) != payload {
		t.Fatalf("copy not replaced: %q", data)
	}
}
