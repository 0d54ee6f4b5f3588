package appstate

import (
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/example/pdfannotations/internal/document"
)

// ErrBusy is returned by Save while another save is in flight.
var ErrBusy = errors.New("save already in progress")

// SaveKind classifies a save failure.
type SaveKind int

const (
	// KindSerialization means the document could not produce bytes.
	KindSerialization SaveKind = iota
	// KindWrite means the bytes could not be written to the local file.
	KindWrite
)

func (k SaveKind) String() string {
	if k == KindWrite {
		return "write"
	}
	return "serialization"
}

// SaveError reports a failed save.
type SaveError struct {
	Kind SaveKind
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// writeFile is replaced in tests.
var writeFile = os.WriteFile

// Save serializes the document and overwrites the local file. The save
// trigger is hidden and the save indicator spins for the duration. A
// second call while one is running returns ErrBusy.
func (s *Screen) Save() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	doc, path := s.doc, s.localPath
	s.saving.Start()
	if s.saveButton != nil {
		s.saveButton.hidden = true
	}
	s.mu.Unlock()
	s.requestPaint()

	start := time.Now()
	size, err := persist(doc, path)

	s.mu.Lock()
	s.saving.Stop()
	if s.saveButton != nil {
		s.saveButton.hidden = false
	}
	if err != nil {
		s.showMessageLocked(msgFailed)
	} else {
		s.showMessageLocked(msgSaved)
	}
	page := s.page
	s.mu.Unlock()
	s.requestPaint()

	fields := log.Fields{"path": path, "elapsed": time.Since(start)}
	if err != nil {
		log.WithFields(fields).WithError(err).Error("save failed")
		s.notifier.SaveFailed(path)
		return err
	}
	fields["bytes"] = size
	log.WithFields(fields).Info("document saved")
	s.notifier.Save(path, s.preview(doc, page))
	return nil
}

func persist(doc *document.Document, path string) (int, error) {
	if doc == nil {
		return 0, &SaveError{Kind: KindSerialization, Path: path, Err: document.ErrNotLoaded}
	}
	data, err := doc.Bytes()
	if err != nil {
		return 0, &SaveError{Kind: KindSerialization, Path: path, Err: err}
	}
	if err := writeFile(path, data, 0o644); err != nil {
		return 0, &SaveError{Kind: KindWrite, Path: path, Err: err}
	}
	return len(data), nil
}
