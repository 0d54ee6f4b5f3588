package fetch

import (
	"context"
	"sync"
)

// Task is an in-flight EnsureLocalCopy owned by a caller that may cancel it.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	handle Handle
	err    error
}

// Start runs EnsureLocalCopy in the background.
func (f *Fetcher) Start(ctx context.Context, remoteURL, localPath string) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		h, err := f.EnsureLocalCopy(ctx, remoteURL, localPath)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		t.mu.Lock()
		t.handle, t.err = h, err
		t.mu.Unlock()
	}()
	return t
}

// Done is closed once the task has a result.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes.
func (t *Task) Wait() (Handle, error) {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle, t.err
}

// Cancel aborts the download. The task still finishes and reports
// context.Canceled from Wait unless it had already completed.
func (t *Task) Cancel() {
	if t != nil && t.cancel != nil {
		t.cancel()
	}
}
